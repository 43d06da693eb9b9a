package monitor

import (
	"fmt"
	"strconv"

	"btcfeed/internal/application/pricebus"
	"btcfeed/internal/domain"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

func colorize(s, c string) string { return c + s + ansiReset }

type Formatter struct {
	// Color 为 false 时输出纯文本（写文件或测试时用）
	Color bool
}

func NewFormatter(color bool) *Formatter {
	return &Formatter{Color: color}
}

func (f *Formatter) paint(s, c string) string {
	if !f.Color {
		return s
	}
	return colorize(s, c)
}

func (f *Formatter) price(e *pricebus.Entry) string {
	if e == nil {
		return "--"
	}
	s := strconv.FormatFloat(e.Update.Price, 'f', 2, 64)
	switch e.Direction {
	case domain.DirectionUp:
		return f.paint(s, ansiGreen)
	case domain.DirectionDown:
		return f.paint(s, ansiRed)
	default:
		return f.paint(s, ansiYellow)
	}
}

// Lines renders one header and one line per venue.
func (f *Formatter) Lines(entries []pricebus.Entry) []string {
	rows := Rows(entries)
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, f.paint(fmt.Sprintf("%-10s %14s %14s %9s  %s", "VENUE", "SPOT", "FUTURES", "BASIS", "EXPIRY"), ansiDim))
	for _, r := range rows {
		basis := "--"
		if b, ok := r.Basis(); ok {
			basis = fmt.Sprintf("%+.3f%%", b)
		}
		expiry := "perp"
		switch {
		case r.Futures == nil:
			expiry = "-"
		case r.Expiration != nil:
			expiry = r.Expiration.UTC().Format(domain.ExpirationLayout)
		}
		// 颜色码会破坏宽度对齐，所以先对齐再上色
		lines = append(lines, fmt.Sprintf("%-10s %s %s %9s  %s",
			r.Venue,
			pad(f.price(r.Spot), priceWidth(r.Spot)),
			pad(f.price(r.Futures), priceWidth(r.Futures)),
			basis,
			expiry,
		))
	}
	return lines
}

func priceWidth(e *pricebus.Entry) int {
	if e == nil {
		return 2
	}
	return len(strconv.FormatFloat(e.Update.Price, 'f', 2, 64))
}

// pad right-aligns s to 14 visible columns; visible is the printable width.
func pad(s string, visible int) string {
	const width = 14
	for i := visible; i < width; i++ {
		s = " " + s
	}
	return s
}
