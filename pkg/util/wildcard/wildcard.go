/*
 * Copyright 2019-2020 by Nedim Sabic Sabic
 * https://www.fibratus.io
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package wildcard matches module names against glob patterns.
package wildcard

import (
	"unicode"
	"unicode/utf8"
)

// Match reports whether str matches the pattern. The '*' wildcard matches any
// sequence of characters, including the empty one, and '?' matches exactly one
// character. Characters are compared exactly.
func Match(pattern, str string) bool { return match(pattern, str, equal) }

// MatchFold is like Match, but characters are compared under Unicode case folding.
func MatchFold(pattern, str string) bool { return match(pattern, str, fold) }

func equal(a, b rune) bool { return a == b }

func fold(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		return lower(a) == lower(b)
	}
	return unicode.SimpleFold(a) == b || unicode.SimpleFold(b) == a || unicode.ToLower(a) == unicode.ToLower(b)
}

func lower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

// match walks both strings once, backtracking to the last star on mismatch.
func match(pattern, str string, eq func(a, b rune) bool) bool {
	var (
		p, s      int
		star      = -1
		starMatch int
	)
	for s < len(str) {
		if p < len(pattern) {
			pr, psize := utf8.DecodeRuneInString(pattern[p:])
			sr, ssize := utf8.DecodeRuneInString(str[s:])
			switch {
			case pr == '*':
				star, starMatch = p, s
				p += psize
				continue
			case pr == '?' || eq(pr, sr):
				p += psize
				s += ssize
				continue
			}
		}
		if star < 0 {
			return false
		}
		// let the star swallow one more character
		_, ssize := utf8.DecodeRuneInString(str[starMatch:])
		starMatch += ssize
		p, s = star+1, starMatch
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
