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
package compileerr_test

import (
	"strings"
	"testing"

	"github.com/weave-silicon/circt-emit/pkg/compileerr"
	"github.com/weave-silicon/circt-emit/pkg/util/assert"
)

func TestError_messageIncludesKindAndNode(t *testing.T) {
	err := compileerr.Newf(compileerr.UnsupportedPrimitive, "g0", "primitive %s.%s is not supported", "acme", "widget")

	assert.Equal(t, compileerr.UnsupportedPrimitive, err.Kind())
	assert.True(t, strings.Contains(err.Error(), "UnsupportedPrimitive"))
	assert.True(t, strings.Contains(err.Error(), "g0"))
	assert.True(t, strings.Contains(err.Error(), "acme.widget"))
}

func TestError_noNodeOmitsAtClause(t *testing.T) {
	err := compileerr.New(compileerr.ReVisit, nil, "node visited twice")

	if strings.Contains(err.Error(), "(at") {
		t.Fatalf("expected no \"(at ...)\" clause when Node is nil: %s", err.Error())
	}
}
