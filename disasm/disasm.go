// Package disasm renders Intcode memory as an instruction listing.
package disasm

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/op"
)

// DataDirective is the mnemonic of cells that don't decode.
const DataDirective = ".data"

// Line is a single listing entry.
type Line struct {
	Addr int64
	Size int
	Raw  []int64
	Ins  *op.Instruction // Nil for data.
}

func (l Line) String() string {
	if l.Ins == nil {
		return fmt.Sprintf("%04d  %-5s %d", l.Addr, DataDirective, l.Raw[0])
	}
	params := make([]string, 0, l.Ins.OpCode.Params)
	for i, elem := range l.Raw[1:] {
		params = append(params, op.FormatParam(l.Ins.Modes[i], elem))
	}
	return strings.TrimRight(fmt.Sprintf("%04d  %-5s %s", l.Addr, l.Ins.OpCode.Name, strings.Join(params, ", ")), " ")
}

// Disasm decodes cells with a linear sweep from address 0.
// Cells that don't decode, or whose parameters run past the end, are data.
func Disasm(cells []int64) []Line {
	var out []Line
	for addr := 0; addr < len(cells); {
		ins, err := op.Decode(cells[addr])
		if err != nil || addr+ins.OpCode.Size() > len(cells) {
			out = append(out, Line{Addr: int64(addr), Size: 1, Raw: cells[addr : addr+1]})
			addr++
			continue
		}
		size := ins.OpCode.Size()
		out = append(out, Line{Addr: int64(addr), Size: size, Raw: cells[addr : addr+size], Ins: &ins})
		addr += size
	}
	return out
}

// Listing is the text rendering of Disasm, one line per entry.
func Listing(cells []int64) string {
	var b strings.Builder
	for _, elem := range Disasm(cells) {
		b.WriteString(elem.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func md5sum(cells []int64) string {
	h := md5.New()
	for _, elem := range cells {
		h.Write(strconv.AppendInt(nil, elem, 10))
		h.Write([]byte{','})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Known looks for cells among the bundled programs and returns its name.
func Known(cells []int64) (string, bool, error) {
	names, err := assets.Names()
	if err != nil {
		return "", false, fmt.Errorf("failed to list known programs: %w", err)
	}
	search := md5sum(cells)
	for _, name := range names {
		known, err := assets.Load(name)
		if err != nil {
			return "", false, fmt.Errorf("failed to load known program: %w", err)
		}
		if md5sum(known) == search {
			return name, true, nil
		}
	}
	return "", false, nil
}
