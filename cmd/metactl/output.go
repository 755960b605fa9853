package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joshuapare/metakit/meta/edit"
	"github.com/joshuapare/metakit/meta/manip"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	if noColor {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var titleCase = cases.Title(language.English)

// directionLabel renders d, coloured when colorize is set.
func directionLabel(d edit.Direction, colorize bool) string {
	label := titleCase.String(d.String())
	if !colorize {
		return label
	}
	switch d {
	case edit.Increased:
		return text.Colors{text.FgGreen}.Sprint(label)
	case edit.Decreased:
		return text.Colors{text.FgRed}.Sprint(label)
	case edit.Changed:
		return text.Colors{text.FgYellow}.Sprint(label)
	default:
		return label
	}
}

// keyLabel describes a manipulation's key without its value.
func keyLabel(m manip.Manipulation) string {
	switch v := m.(type) {
	case manip.Eqp:
		return fmt.Sprintf("%s set %d", v.Slot, v.SetID)
	case manip.Eqdp:
		return fmt.Sprintf("%s %s %s set %d", v.Race, v.Gender, v.Slot, v.SetID)
	case manip.Imc:
		if v.ObjectType.UsesSlot() {
			return fmt.Sprintf("%s %04d %s v%d", v.ObjectType, v.PrimaryID, v.EquipSlot, v.Variant)
		}
		return fmt.Sprintf("%s %04d/%04d v%d", v.ObjectType, v.PrimaryID, v.SecondaryID, v.Variant)
	case manip.Est:
		return fmt.Sprintf("%s %s %s set %d", v.Slot, v.Race, v.Gender, v.SetID)
	case manip.Gmp:
		return fmt.Sprintf("set %d", v.SetID)
	case manip.Rsp:
		return fmt.Sprintf("%s %s", v.SubRace, v.Attribute)
	default:
		return m.Identifier().String()
	}
}

// valueLabel renders a manipulation's value; nil renders as a dash.
func valueLabel(m manip.Manipulation) string {
	switch v := m.(type) {
	case nil:
		return "-"
	case manip.Eqp:
		return fmt.Sprintf("0x%016x", uint64(v.Entry))
	case manip.Eqdp:
		b1, b2 := v.Bits()
		return fmt.Sprintf("material=%t model=%t", b1, b2)
	case manip.Imc:
		e := v.Entry
		return fmt.Sprintf("mat=%d decal=%d attr=0x%03x sound=%d vfx=%d anim=%d",
			e.MaterialID, e.DecalID, e.AttributeMask, e.SoundID, e.VfxID, e.MaterialAnimationID)
	case manip.Est:
		return fmt.Sprintf("%d", v.Entry)
	case manip.Gmp:
		e := v.Entry
		return fmt.Sprintf("enabled=%t animated=%t rot=%d/%d/%d", e.Enabled, e.Animated, e.RotationA, e.RotationB, e.RotationC)
	case manip.Rsp:
		return fmt.Sprintf("%g", float32(v.Entry))
	default:
		return m.String()
	}
}
