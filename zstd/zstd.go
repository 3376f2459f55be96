// Package zstd provides decompression of zstandard-compressed data: frame
// and block parsing, FSE and Huffman entropy decoding, and sequence
// execution against a sliding window, following RFC 8478.
package zstd

import "log"

const debug = false

func println(a ...interface{}) {
	if debug {
		log.Println(a...)
	}
}

func printf(format string, a ...interface{}) {
	if debug {
		log.Printf(format, a...)
	}
}
