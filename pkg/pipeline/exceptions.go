// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import "github.com/LeeDigitalWorks/objfiledb/pkg/types"

type objectProfile struct {
	uniqueName string
	game       types.GameVersion
}

// skipFPRelativeLinks lists objects whose frame-pointer relative links are
// left unresolved under a given game version.
var skipFPRelativeLinks = map[objectProfile]struct{}{
	// Resolving fp-relative links in this object fails on jak2 images.
	{uniqueName: "effect-control-v0", game: types.GameJak2}: {},
}

// SkipFPRelativeLinks reports whether the frame-pointer pass is skipped for
// the object with the given unique name.
func SkipFPRelativeLinks(uniqueName string, game types.GameVersion) bool {
	_, ok := skipFPRelativeLinks[objectProfile{uniqueName: uniqueName, game: game}]
	return ok
}
