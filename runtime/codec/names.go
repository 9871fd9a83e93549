// Copyright 2016 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

//go:generate mockgen -source=names.go -destination=mocks/mock_names.go -package=mocks

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/runenames"
)

// NameLookup resolves the character names used in \N{...} escapes.
type NameLookup interface {
	LookupName(name string) (rune, bool)
}

// DefaultNames resolves names from the Unicode character database. Lookups
// are case insensitive.
var DefaultNames NameLookup = &runeNames{}

type runeNames struct {
	once  sync.Once
	index map[string]rune
}

func (n *runeNames) LookupName(name string) (rune, bool) {
	n.once.Do(n.build)
	r, ok := n.index[strings.ToUpper(name)]
	return r, ok
}

func (n *runeNames) build() {
	n.index = make(map[string]rune, 1<<15)
	for r := rune(0); r <= maxRune; r++ {
		name := runenames.Name(r)
		// Ranges such as CJK ideographs only carry a placeholder name.
		if name == "" || strings.HasPrefix(name, "<") {
			continue
		}
		if _, ok := n.index[name]; !ok {
			n.index[name] = r
		}
	}
}
