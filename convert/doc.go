// Package convert renders binary images as binary text and back
//
// An input consists of an 8-byte header followed by a body. The header is discarded from the rendering and each
// byte of the body becomes one line of eight '0'/'1' characters, most-significant bit first, e.g.
//
//	0x05 => "00000101\n"
//
// The text form is what $readmemb expects when loading memories in HDL simulations.
package convert
