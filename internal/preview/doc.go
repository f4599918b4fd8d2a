// Package preview renders one-line previews of clipboard payloads.
//
// Images (png, jpeg, gif, bmp, webp, tiff) that decode fully are described by
// size, format and dimensions. A payload whose image data is truncated or
// corrupt is previewed as text. Everything else is decoded as lossy UTF-8, whitespace runs are
// collapsed to single spaces and the result is cut to a rune width.
package preview
