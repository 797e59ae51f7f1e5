// Package source locates and reads assessment-roll documents.
//
// Rolls are plain text, or HTML as written by PDF-to-HTML converters. Both
// are reduced to the line-oriented text segmented by package roll.
//
// Relative roll names are resolved against a search path: directories given
// on the command line, then those listed in the ROLLSEG_PATH environment
// variable.
package source
