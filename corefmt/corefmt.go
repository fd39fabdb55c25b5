// Copyright 2025 Zintix Labs
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

// Package corefmt 把 PRNG 快照轉成可以貼在終端或 URL 上的文字。
package corefmt

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/zintix-labs/mdir/errs"
)

// EncodeSnapshot 以 base64url（無 padding）編碼快照，作為 sweep 的 replay token。
func EncodeSnapshot(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeSnapshot 解回 EncodeSnapshot 的輸出。token 來自使用者輸入，錯誤為 Warn。
func DecodeSnapshot(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "decode replay token failed")
	}
	if len(b) == 0 {
		return nil, errs.NewWarn("empty replay token")
	}
	return b, nil
}

// EncodeHex 除錯輸出用
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}
