// Package normalisers loads source documents into memory as plain text.
// Each format lives in its own subpackage and implements
// driven.FormatReader; the Registry picks one by file extension.
package normalisers
