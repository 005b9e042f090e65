// Package probe reads the channel layout of image files without decoding
// any pixels. It is the boundary to the image backends: every supported
// source is reduced to an ordered list of parts, each with its ordered
// channel names, plus the file's view names.
//
// Supported sources:
//   - OpenEXR files (.exr), single-part or multi-part. Only the headers are
//     read: the "channels", "name", "view" and "multiView" attributes.
//   - Channel manifests (.json, .yaml, .yml, .toml) describing the same layout, as
//     exported from OpenImageIO subimage listings or written by hand.
//
// [Load] dispatches on the file extension.
package probe
