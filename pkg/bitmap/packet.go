package bitmap

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
)

const (
	PacketStart = '#'
	RowEnd      = '+'
)

var ErrBadPacket = errors.New("malformed upload packet")

// BuildPacket renders the upload packet of a frame: the start marker, then the
// first limit rows, each cut to cols characters and terminated by RowEnd.
func BuildPacket(rows []string, limit int, cols int) []byte {
	var buf bytes.Buffer
	buf.WriteByte(PacketStart)

	for i, row := range rows {
		if i >= limit {
			break
		}
		if cols >= 0 && len(row) > cols {
			row = row[:cols]
		}
		buf.WriteString(row)
		buf.WriteByte(RowEnd)
	}

	return buf.Bytes()
}

// ParsePacket splits an upload packet back into its row codes.
func ParsePacket(p []byte) ([]string, error) {
	if len(p) == 0 || p[0] != PacketStart {
		return nil, errors.Wrap(ErrBadPacket, "missing start marker")
	}

	body := string(p[1:])
	if body == "" {
		return []string{}, nil
	}
	if body[len(body)-1] != RowEnd {
		return nil, errors.Wrap(ErrBadPacket, "missing row terminator")
	}

	return strings.Split(body[:len(body)-1], string(RowEnd)), nil
}
