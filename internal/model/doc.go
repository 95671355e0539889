// Package model holds the plain data types shared by the scanner, the
// registry, the spawn builder and the presentation layer. Values here carry
// no behaviour beyond construction helpers and are replaced wholesale rather
// than mutated.
package model
