// Package fse implements decoding of FSE (Finite State Entropy) encoded
// data, the generic entropy stage zstd layers underneath Huffman weights
// and, inside the zstd package itself, literals-length/match-length/offset
// sequence symbols.
//
// This package only implements the decoder: building a dictionary and
// compressing with it is out of scope here.
package fse

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	maxMemoryUsage = 14

	maxTableLog         = maxMemoryUsage - 2
	maxTablesize        = 1 << maxTableLog
	minTablelog         = 5
	maxSymbolValue      = 255
	tablelogAbsoluteMax = 15
)

// Scratch holds reusable decoder state so repeated calls to Decompress
// don't need to allocate.
type Scratch struct {
	// norm, symbolLen and tableLog are filled in by readNCount.
	norm      [maxSymbolValue + 1]int16
	symbolLen uint16
	tableLog  uint8

	decTable []decSymbol
	br       byteReader

	// Out is the output buffer. It is reused between calls unless the
	// caller sets it to nil.
	Out []byte

	// DecompressLimit caps the number of output bytes Decompress will
	// produce, guarding against corrupt length fields.
	DecompressLimit int
}

type decSymbol struct {
	newState uint16
	symbol   uint8
	nbBits   uint8
}

func (s *Scratch) prepare(in []byte) (*Scratch, error) {
	if s == nil {
		s = &Scratch{}
	}
	if cap(s.Out) == 0 {
		s.Out = make([]byte, 0, len(in)*3)
	}
	s.Out = s.Out[:0]
	s.br.init(in)
	return s, nil
}

func highBits(val uint32) uint32 {
	if val == 0 {
		return 0
	}
	return uint32(bits.Len32(val) - 1)
}

func tableStep(tableSize uint32) uint32 {
	return (tableSize >> 1) + (tableSize >> 3) + 3
}

// buildDtable constructs the decoding table from the normalized counts
// previously parsed by readNCount.
func (s *Scratch) buildDtable() error {
	tableSize := uint32(1) << s.tableLog
	if cap(s.decTable) < int(tableSize) {
		s.decTable = make([]decSymbol, tableSize)
	}
	s.decTable = s.decTable[:tableSize]

	highThreshold := tableSize - 1
	var symbolNext [maxSymbolValue + 1]uint16

	for i, v := range s.norm[:s.symbolLen] {
		if v == -1 {
			s.decTable[highThreshold].symbol = uint8(i)
			highThreshold--
			symbolNext[i] = 1
		} else {
			symbolNext[i] = uint16(v)
		}
	}

	tableMask := tableSize - 1
	step := tableStep(tableSize)
	position := uint32(0)
	for ss, v := range s.norm[:s.symbolLen] {
		for i := 0; i < int(v); i++ {
			s.decTable[position].symbol = uint8(ss)
			position = (position + step) & tableMask
			for position > highThreshold {
				position = (position + step) & tableMask
			}
		}
	}
	if position != 0 {
		return errors.New("fse: corrupt input, did not fill every table slot")
	}

	for u := range s.decTable {
		symbol := s.decTable[u].symbol
		nextState := symbolNext[symbol]
		symbolNext[symbol] = nextState + 1
		nbBits := s.tableLog - uint8(highBits(uint32(nextState)))
		s.decTable[u].nbBits = nbBits
		newState := (nextState << nbBits) - uint16(tableSize)
		s.decTable[u].newState = newState
	}
	return nil
}

func (s *Scratch) validate() error {
	if s.tableLog > tablelogAbsoluteMax {
		return fmt.Errorf("fse: tableLog (%d) exceeds maximum (%d)", s.tableLog, tablelogAbsoluteMax)
	}
	if s.symbolLen == 0 {
		return errors.New("fse: no symbols in table")
	}
	return nil
}
