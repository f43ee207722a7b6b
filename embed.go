package pubsite

import "embed"

// EmbeddedAssets contains the default stylesheet written to every built site
// and served by the preview server.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
