package arith

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/wire"
)

// LoadInputs parses an inputs file: one "<wireId> <hexValue>" per
// non-blank line. Wire ids out of range, or a line that does not yield
// exactly two tokens, are fatal. Values naming Rnd wires are accepted but
// ignored here: randomness arrives through Eval's rnd parameter, derived
// from the stage-1 commitment, never from this file.
func (rd *Reader) LoadInputs(r io.Reader) (WireValues, error) {
	out := make(WireValues)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("arith: inputs line %d: expected \"<wireId> <hexValue>\", got %q", lineNo, line)
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("arith: inputs line %d: bad wire id %q", lineNo, fields[0])
		}
		if uint32(id) >= rd.Groups.Total {
			return nil, fmt.Errorf("arith: inputs line %d: wire id %d out of range [0,%d)", lineNo, id, rd.Groups.Total)
		}
		v, err := field.FromHex(fields[1])
		if err != nil {
			return nil, fmt.Errorf("arith: inputs line %d: %w", lineNo, err)
		}
		if grp, ok := rd.Groups.GroupOf(wire.ID(id)); ok && grp == wire.Rnd {
			continue
		}
		out[wire.ID(id)] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("arith: reading inputs: %w", err)
	}
	return out, nil
}
