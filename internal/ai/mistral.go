// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

const mistralBaseURL = "https://api.mistral.ai/v1"

// newMistral returns a provider for La Plateforme, whose chat API is
// wire-compatible with OpenAI's, JSON mode included.
func newMistral(cfg ProviderConfig) *chatProvider {
	return newChatProvider("mistral", mistralBaseURL, cfg)
}
