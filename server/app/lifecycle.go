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

package app

import "context"

// Component 是任何「可啟動 / 可關閉」的長生命週期元件（例如 HTTP server）。
//   - Run 阻塞直到元件停止。
//   - Shutdown 要求優雅關閉，實作方應尊重 ctx deadline。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
