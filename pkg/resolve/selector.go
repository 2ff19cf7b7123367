// pkg/resolve/selector.go
package resolve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
)

// ErrDeferred is returned by a Selector that has no opinion about a package.
// Chain moves on to the next selector.
var ErrDeferred = errors.New("selection deferred")

// Selector picks one of the candidates for a package
type Selector interface {
	Select(name string, candidates []Candidate) (Candidate, error)
}

// SelectorFunc adapts a function to Selector
type SelectorFunc func(name string, candidates []Candidate) (Candidate, error)

// Select calls f
func (f SelectorFunc) Select(name string, candidates []Candidate) (Candidate, error) {
	return f(name, candidates)
}

func invalid(name, format string, args ...any) error {
	return core.Errorf(core.ErrAmbiguousSelection, "select", name, format, args...)
}

// MethodSelector forces Method for Package and defers for every other name
type MethodSelector struct {
	Package string
	Method  catalog.Method
}

// Select implements Selector
func (s MethodSelector) Select(name string, candidates []Candidate) (Candidate, error) {
	if name != s.Package {
		return Candidate{}, ErrDeferred
	}
	for _, c := range candidates {
		if c.Method == s.Method {
			return c, nil
		}
	}
	return Candidate{}, invalid(name, "%s is not offered (available: %s)", s.Method, methodList(candidates))
}

// PreferenceSelector picks the first candidate whose method appears in Order
// and is usable on this host
type PreferenceSelector struct {
	Order     []catalog.Method
	Available func(catalog.Method) bool // nil means every method is usable
}

// Select implements Selector
func (s PreferenceSelector) Select(name string, candidates []Candidate) (Candidate, error) {
	for _, want := range s.Order {
		if s.Available != nil && !s.Available(want) {
			continue
		}
		for _, c := range candidates {
			if c.Method == want {
				return c, nil
			}
		}
	}
	return Candidate{}, ErrDeferred
}

// PromptSelector asks on Out and reads a 1-based choice from In
type PromptSelector struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewPromptSelector creates a PromptSelector. The same reader is reused for
// every question so buffered input is not lost between dependencies.
func NewPromptSelector(in io.Reader, out io.Writer) *PromptSelector {
	return &PromptSelector{In: in, Out: out, reader: bufio.NewReader(in)}
}

// Select implements Selector
func (s *PromptSelector) Select(name string, candidates []Candidate) (Candidate, error) {
	if s.reader == nil {
		s.reader = bufio.NewReader(s.In)
	}

	fmt.Fprintf(s.Out, "The package '%s' is available in the following formats:\n", name)
	for i, c := range candidates {
		fmt.Fprintf(s.Out, "(%d) %s\n", i+1, c.Method)
	}
	fmt.Fprintf(s.Out, "Please enter a number for which format you'd like to use: ")

	line, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return Candidate{}, invalid(name, "reading choice: %w", err)
	}

	choice := strings.TrimSpace(line)
	n, err := strconv.Atoi(choice)
	if err != nil {
		return Candidate{}, invalid(name, "%q is not a number", choice)
	}
	if n < 1 || n > len(candidates) {
		return Candidate{}, invalid(name, "%d is not an option (1-%d)", n, len(candidates))
	}
	return candidates[n-1], nil
}

// Chain asks each selector in turn until one does not defer
func Chain(selectors ...Selector) Selector {
	return SelectorFunc(func(name string, candidates []Candidate) (Candidate, error) {
		for _, s := range selectors {
			if s == nil {
				continue
			}
			c, err := s.Select(name, candidates)
			if errors.Is(err, ErrDeferred) {
				continue
			}
			return c, err
		}
		return Candidate{}, invalid(name, "no method chosen (available: %s); pass --method", methodList(candidates))
	})
}

// ParseMethods parses a list of method names such as ["apt", "flathub"]
func ParseMethods(names []string) ([]catalog.Method, error) {
	methods := make([]catalog.Method, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		m, err := catalog.ParseMethod(n)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func methodList(candidates []Candidate) string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = strings.ToLower(c.Method.String())
	}
	return strings.Join(names, ", ")
}
