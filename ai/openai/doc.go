// Copyright 2026 Orbital Grid
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


// Package openai provides AI services backed by OpenAI-compatible APIs.
//
// This package implements the ai.Provider interface using the langchaingo
// library, targeting local OpenAI-compatible endpoints (Ollama, LocalAI,
// vLLM) as well as the hosted OpenAI API. Embeddings use the embeddings
// API; entity tagging uses a chat model prompted to emit a fixed JSON
// annotation schema.
package openai
