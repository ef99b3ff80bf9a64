// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidLayout = errors.New("invalid layout")

var primitivesByName = map[string]Primitive{
	"bool":    Bool,
	"u8":      U8,
	"u16":     U16,
	"u32":     U32,
	"u64":     U64,
	"u128":    U128,
	"u256":    U256,
	"address": Address,
	"signer":  Signer,
}

// Parse reads a TypeLayout written in the form produced by String, e.g.
// "struct(u64, marked(u128), vector(address))".
func Parse(s string) (TypeLayout, error) {
	p := &parser{src: s}
	l, err := p.typeLayout()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return l, nil
}

// ParseRuntime reads a SerializationLayout, e.g. "struct(u64, u128_marker)".
func ParseRuntime(s string) (SerializationLayout, error) {
	p := &parser{src: s}
	l, err := p.runtimeLayout()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return l, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) word() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c != '_' && !unicode.IsLetter(rune(c)) && !unicode.IsDigit(rune(c)) {
			break
		}
		p.pos++
	}
	return strings.ToLower(p.src[start:p.pos])
}

// peek reports whether the next non-space byte is [c], consuming it if so.
func (p *parser) peek(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c byte) error {
	if !p.peek(c) {
		return p.errorf("expected %q", c)
	}
	return nil
}

func (p *parser) end() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("unexpected trailing input")
	}
	return nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrInvalidLayout, fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *parser) typeLayout() (TypeLayout, error) {
	name := p.word()
	if prim, ok := primitivesByName[name]; ok {
		return prim, nil
	}
	switch name {
	case "vector", "marked":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		inner, err := p.typeLayout()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		if name == "vector" {
			return Vector{Elem: inner}, nil
		}
		return Marked{Inner: inner}, nil
	case "struct":
		fields := []TypeLayout{}
		err := p.list(func() error {
			f, err := p.typeLayout()
			fields = append(fields, f)
			return err
		})
		if err != nil {
			return nil, err
		}
		return Struct{Fields: fields}, nil
	case "":
		return nil, p.errorf("expected layout")
	default:
		return nil, p.errorf("unknown layout %q", name)
	}
}

func (p *parser) runtimeLayout() (SerializationLayout, error) {
	name := p.word()
	if prim, ok := primitivesByName[name]; ok {
		return prim, nil
	}
	switch name {
	case "u64_marker":
		return U64Marker, nil
	case "u128_marker":
		return U128Marker, nil
	case "vector":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		elem, err := p.runtimeLayout()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return RuntimeVector{Elem: elem}, nil
	case "struct":
		fields := []SerializationLayout{}
		err := p.list(func() error {
			f, err := p.runtimeLayout()
			fields = append(fields, f)
			return err
		})
		if err != nil {
			return nil, err
		}
		return RuntimeStruct{Fields: fields}, nil
	case "":
		return nil, p.errorf("expected layout")
	default:
		return nil, p.errorf("unknown layout %q", name)
	}
}

// list parses a parenthesized, comma separated, possibly empty list.
func (p *parser) list(item func() error) error {
	if err := p.expect('('); err != nil {
		return err
	}
	if p.peek(')') {
		return nil
	}
	for {
		if err := item(); err != nil {
			return err
		}
		if p.peek(')') {
			return nil
		}
		if err := p.expect(','); err != nil {
			return err
		}
	}
}
