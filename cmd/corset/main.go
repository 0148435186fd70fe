// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command corset compiles corset source into a constraint set and
// checks execution traces against it.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/zkcorset/corset/cmd/corset/internal/cli"
)

func main() {
	if err := cli.Root().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
