// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

import (
	"strconv"
)

// Append-only buffer of NMEA sentences
// - start marks the '$' of the sentence being composed; the checksum covers the bytes after it
type sentenceBuf struct {
	b     []byte
	start int
}

// Start a sentence like "$GPGGA"
func (s *sentenceBuf) begin(talker byte, typ string) {
	s.start = len(s.b)
	s.b = append(s.b, '$', 'G', talker)
	s.b = append(s.b, typ...)
}

func (s *sentenceBuf) char(c ...byte) {
	s.b = append(s.b, c...)
}

func (s *sentenceBuf) str(f string) {
	s.b = append(s.b, f...)
}

// Zero padded decimal with at least width digits
func (s *sentenceBuf) dec(v, width int) {
	s.b = appendUint(s.b, v, width)
}

func (s *sentenceBuf) float(v float64, digits int) {
	s.b = appendFloat(s.b, v, digits)
}

// Terminate the sentence with "*HH\r\n"
func (s *sentenceBuf) end() {
	sum := checksum(s.b[s.start+1:])
	s.b = append(s.b, '*', hexDigit(sum>>4), hexDigit(sum&0xf), '\r', '\n')
}

// XOR of all bytes
func checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum ^= c
	}
	return sum
}

func hexDigit(v byte) byte {
	if v > 9 {
		return 'A' + v - 10
	}
	return '0' + v
}

func appendUint(b []byte, v, width int) []byte {
	if v < 0 {
		v = 0
	}
	var tmp [20]byte
	d := strconv.AppendInt(tmp[:0], int64(v), 10)
	for i := len(d); i < width; i++ {
		b = append(b, '0')
	}
	return append(b, d...)
}

func appendFloat(b []byte, v float64, digits int) []byte {
	return strconv.AppendFloat(b, v, 'f', digits, 64)
}
