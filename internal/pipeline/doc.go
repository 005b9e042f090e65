// Package pipeline ties the stages together for the command line: it finds
// the image files under the input path, groups each file's channels into
// layers, and renders one report per file.
//
// [Run] inspects every discovered file once and returns aggregate stats.
// [Watch] keeps running after that, re-inspecting files as they change on
// disk. Each change builds a fresh layer engine for the file; nothing from
// the previous report is reused.
package pipeline
