package guardstack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Provenance records where a stack was created. It is used only in
// diagnostics and never influences behavior.
type Provenance struct {
	Name string `json:"name"`           // Variable or logical name chosen by the caller.
	File string `json:"file,omitempty"` // Source file of the constructing call.
	Line int    `json:"line,omitempty"`
	Func string `json:"func,omitempty"` // Enclosing function of the constructing call.
	// ID distinguishes instances that share a name. New fills it when empty.
	ID string `json:"id,omitempty"`
}

// Here returns a Provenance for the caller of Here, named name.
//
//	stk := guardstack.New[int](guardstack.Here("stk"), nil)
func Here(name string) Provenance {
	return caller(name, 2)
}

func caller(name string, skip int) Provenance {
	p := Provenance{Name: name}
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return p
	}
	p.File = file
	p.Line = line
	if fn := runtime.FuncForPC(pc); fn != nil {
		p.Func = fn.Name()
	}
	return p
}

// String renders the provenance as `name (file:line func)`.
func (p Provenance) String() string {
	b := &strings.Builder{}
	name := p.Name
	if name == "" {
		name = "<unnamed>"
	}
	b.WriteString(name)
	if p.File != "" {
		fmt.Fprintf(b, " (%s:%d", filepath.Base(p.File), p.Line)
		if p.Func != "" {
			fmt.Fprintf(b, " %s", p.Func)
		}
		b.WriteString(")")
	}
	return b.String()
}
