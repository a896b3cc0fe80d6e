// Package normalisers provides driven.TextNormaliser implementations that
// clean markup-bearing text before it is written to output files.
package normalisers
