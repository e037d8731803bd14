// Package aggregate concatenates ambient declaration files into one combined
// declaration file headed by a reference banner.
//
// Files are taken in filesystem listing order (lexical, depth first) and read
// sequentially. Content is never parsed; the combined file is written atomically
// and left untouched when its bytes would not change.
package aggregate
