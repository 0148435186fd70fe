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
package json

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zkcorset/corset/pkg/schema"
)

func writeTrace(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trace.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return path
}

func TestLoadFillsDeclaredColumnsInOrder(t *testing.T) {
	set := schema.NewSet()

	a, err := set.Register("main", "A")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	path := writeTrace(t, `{"main": {"A": ["1", "2", "3"]}}`)

	if err := Load(path, set, Options{}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	v, ok := set.Column(a).Get(1, false)
	if !ok {
		t.Fatalf("expected row 1 of A to be present")
	}

	if v.Text(10) != "2" {
		t.Errorf("expected A[1] == 2, got %s", v.Text(10))
	}
}

func TestLoadIgnoresColumnsNotDeclaredInSet(t *testing.T) {
	set := schema.NewSet()

	if _, err := set.Register("main", "A"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	path := writeTrace(t, `{"main": {"A": ["1"], "GHOST": ["9"]}}`)

	if err := Load(path, set, Options{}); err != nil {
		t.Fatalf("Load should ignore undeclared columns, got: %v", err)
	}
}

func TestLoadFailOnMissingReportsUnfilledColumn(t *testing.T) {
	set := schema.NewSet()

	if _, err := set.Register("main", "A"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := set.Register("main", "B"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	path := writeTrace(t, `{"main": {"A": ["1"]}}`)

	if err := Load(path, set, Options{FailOnMissing: true}); err == nil {
		t.Fatalf("expected an error for missing column B")
	}
}

func TestLoadRejectsEmptyTrace(t *testing.T) {
	set := schema.NewSet()
	path := writeTrace(t, `{}`)

	if err := Load(path, set, Options{}); err == nil {
		t.Fatalf("expected an error for an empty trace")
	}
}

func TestLoadRejectsMalformedFieldValue(t *testing.T) {
	set := schema.NewSet()

	if _, err := set.Register("main", "A"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	path := writeTrace(t, `{"main": {"A": ["not-a-number"]}}`)

	if err := Load(path, set, Options{}); err == nil {
		t.Fatalf("expected an error for a malformed field value")
	}
}
