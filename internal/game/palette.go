package game

import "math/rand/v2"

type Color struct {
	Label string `json:"html"`
	Hex   string `json:"hex"`
}

// Palette is an ordered set of colors. Member colors are handed out from a
// clone of MainColors so that no two members of a session share one.
type Palette struct {
	Name   string
	Colors []Color
}

var MainColors = Palette{
	Name: "main colors",
	Colors: []Color{
		{Label: "is-red", Hex: "#c40233"},
		{Label: "is-orange", Hex: "#ff7538"},
		{Label: "is-orange-light", Hex: "#ffa41c"},
		{Label: "is-yellow", Hex: "#ffd300"},
		{Label: "is-green-light", Hex: "#80c022"},
		{Label: "is-green", Hex: "#00ad43"},
		{Label: "is-blue-light", Hex: "#0075a3"},
		{Label: "is-blue", Hex: "#22438f"},
		{Label: "is-purple", Hex: "#69359c"},
	},
}

var GreyColors = Palette{
	Name: "greyscale colors",
	Colors: []Color{
		{Label: "is-white", Hex: "#f8f9fa"},
		{Label: "is-grey-lightest", Hex: "#e9ecef"},
		{Label: "is-grey-lighter", Hex: "#dee2e6"},
		{Label: "is-grey-light", Hex: "#ced4da"},
		{Label: "is-grey", Hex: "#adb5bd"},
		{Label: "is-grey-dark", Hex: "#6c757d"},
		{Label: "is-grey-darker", Hex: "#495057"},
		{Label: "is-grey-darkest", Hex: "#343a40"},
		{Label: "is-black", Hex: "#212529"},
	},
}

func (p *Palette) ColorByLabel(label string) (Color, error) {
	for _, c := range p.Colors {
		if c.Label == label {
			return c, nil
		}
	}
	return Color{}, newError(KindUnknownTool, "%s is not in palette %s", label, p.Name)
}

func (p *Palette) ColorByHex(hex string) (Color, bool) {
	for _, c := range p.Colors {
		if c.Hex == hex {
			return c, true
		}
	}
	return Color{}, false
}

// RandomColor returns false when the palette is empty.
func (p *Palette) RandomColor() (Color, bool) {
	if len(p.Colors) == 0 {
		return Color{}, false
	}
	return p.Colors[rand.IntN(len(p.Colors))], true
}

func (p *Palette) Clone() *Palette {
	colors := make([]Color, len(p.Colors))
	copy(colors, p.Colors)
	return &Palette{Name: p.Name, Colors: colors}
}

func (p *Palette) Remove(hex string) {
	kept := p.Colors[:0]
	for _, c := range p.Colors {
		if c.Hex != hex {
			kept = append(kept, c)
		}
	}
	p.Colors = kept
}

func (p *Palette) Add(c Color) {
	for _, existing := range p.Colors {
		if existing.Hex == c.Hex {
			return
		}
	}
	p.Colors = append(p.Colors, c)
}

func (p *Palette) Len() int {
	return len(p.Colors)
}

// LookupColor searches every built-in palette for a label.
func LookupColor(label string) (Color, error) {
	if c, err := MainColors.ColorByLabel(label); err == nil {
		return c, nil
	}
	if c, err := GreyColors.ColorByLabel(label); err == nil {
		return c, nil
	}
	return Color{}, newError(KindUnknownTool, "color %q is not in any palette", label)
}

func mustColor(p *Palette, label string) Color {
	c, err := p.ColorByLabel(label)
	if err != nil {
		panic(err)
	}
	return c
}
