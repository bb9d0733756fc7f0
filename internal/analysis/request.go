package analysis

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Choice is a menu selection.
type Choice int

const (
	ChoiceInvalid Choice = iota
	ChoiceCity
	ChoiceCountry
	ChoiceCompare
	ChoiceGlobal
)

// Request is everything read from the user for one run.
type Request struct {
	Choice    Choice
	Selection string // raw selection line
	Entities  []string
}

// ParseChoice parses a menu selection. Anything that is not one of the four
// option numbers, including non-numeric text, is ChoiceInvalid.
func ParseChoice(s string) Choice {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < int(ChoiceCity) || n > int(ChoiceGlobal) {
		return ChoiceInvalid
	}
	return Choice(n)
}

// entityPrompts lists the follow-up prompts per choice.
var entityPrompts = map[Choice][]string{
	ChoiceCity:    {"Enter the name of the city: "},
	ChoiceCountry: {"Enter the name of the country: "},
	ChoiceCompare: {"Enter the name of the first city: ", "Enter the name of the second city: "},
}

const menu = `
Analysis Options:
1. City temperature trend
2. Country temperature trend
3. Compare temperature trends between two cities
4. Global temperature trend
`

// Prompt prints the menu on out and reads the selection and entity names
// from in, one per line. Entity names are trimmed. An invalid selection
// reads nothing further.
//
// Prompt returns ctx.Err() as soon as ctx is done, even while a read is
// blocked. The blocked read is abandoned; callers are expected to exit.
func Prompt(ctx context.Context, in io.Reader, out io.Writer) (Request, error) {
	type result struct {
		req Request
		err error
	}
	done := make(chan result, 1)
	go func() {
		req, err := prompt(in, out)
		done <- result{req, err}
	}()

	select {
	case <-ctx.Done():
		return Request{}, ctx.Err()
	case r := <-done:
		return r.req, r.err
	}
}

func prompt(in io.Reader, out io.Writer) (Request, error) {
	br := bufio.NewReader(in)

	fmt.Fprint(out, menu)
	fmt.Fprint(out, "Please choose an option (1/2/3/4): ")
	sel, err := readLine(br)
	if err != nil {
		return Request{}, fmt.Errorf("read selection: %w", err)
	}

	req := Request{Choice: ParseChoice(sel), Selection: sel}
	for _, p := range entityPrompts[req.Choice] {
		fmt.Fprint(out, p)
		name, err := readLine(br)
		if err != nil {
			return Request{}, fmt.Errorf("read entity name: %w", err)
		}
		req.Entities = append(req.Entities, strings.TrimSpace(name))
	}
	return req, nil
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned as-is; io.EOF is only reported when
// nothing was read.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
