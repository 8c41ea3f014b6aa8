// Package bitfield turns a torrent's piece-completion bitmap into the few
// colored segments a progress bar can show.
//
// Each byte of the bitmap covers eight pieces and is weighted by how many of
// them are present. Bytes are grouped so that no bitmap yields more than 100
// groups, each group is scored against its all-complete weight, and adjacent
// groups with the same score are merged.
package bitfield
