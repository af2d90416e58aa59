// Package calc evaluates simple arithmetic expressions for the amount
// field. Operators apply strictly left to right with no precedence,
// matching a chained pocket-calculator: "2+3*4" is 20, not 14.
package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrBadExpression   = errors.New("malformed expression")
	ErrDivideByZero    = errors.New("division by zero")
)

// Evaluate computes a left-to-right chain of +, -, *, / over decimal
// operands. Each intermediate result is rounded to 4 decimal places to keep
// floating point noise out of the display.
func Evaluate(expr string) (float64, error) {
	expr = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, expr)
	if expr == "" {
		return 0, ErrEmptyExpression
	}

	operands, operators, err := tokenize(expr)
	if err != nil {
		return 0, err
	}

	acc := operands[0]
	for i, op := range operators {
		next := operands[i+1]
		switch op {
		case '+':
			acc += next
		case '-':
			acc -= next
		case '*':
			acc *= next
		case '/':
			if next == 0 {
				return 0, ErrDivideByZero
			}
			acc /= next
		}
		acc = round4(acc)
	}
	return acc, nil
}

func tokenize(expr string) ([]float64, []byte, error) {
	var (
		operands  []float64
		operators []byte
		start     int
	)
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; c {
		case '+', '-', '*', '/':
			if i == start {
				// operator with no left operand (also covers "1++2")
				return nil, nil, ErrBadExpression
			}
			v, err := strconv.ParseFloat(expr[start:i], 64)
			if err != nil {
				return nil, nil, ErrBadExpression
			}
			operands = append(operands, v)
			operators = append(operators, c)
			start = i + 1
		}
	}
	if start == len(expr) {
		// trailing operator
		return nil, nil, ErrBadExpression
	}
	v, err := strconv.ParseFloat(expr[start:], 64)
	if err != nil {
		return nil, nil, ErrBadExpression
	}
	operands = append(operands, v)
	return operands, operators, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
