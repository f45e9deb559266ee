// Package web carries the embedded presentation assets: the moderation
// console and the embeddable comment widget. No business logic lives here.
package web

import "embed"

//go:embed admin.html embed.js
var Assets embed.FS
