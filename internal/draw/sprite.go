package draw

import "strings"

// Sprite is a small monochrome bitmap.
type Sprite struct {
	Width, Height int
	bits          []bool
}

// ParseSprite builds a sprite from rows of text; any character other than
// ' ' and '.' is a set pixel. Short rows are padded.
func ParseSprite(rows ...string) *Sprite {
	s := &Sprite{Height: len(rows)}
	for _, r := range rows {
		s.Width = max(s.Width, len([]rune(r)))
	}
	s.bits = make([]bool, s.Width*s.Height)
	for y, r := range rows {
		for x, ch := range []rune(r) {
			s.bits[y*s.Width+x] = !strings.ContainsRune(" .", ch)
		}
	}
	return s
}

// At reports whether the pixel at (x, y) is set.
func (s *Sprite) At(x, y int) bool {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return false
	}
	return s.bits[y*s.Width+x]
}

// Invader sprites, two animation frames each. Rows of the formation cycle
// through the kinds from the top.
var Invaders = [][2]*Sprite{
	{
		ParseSprite(
			"...##...",
			"..####..",
			".######.",
			"##.##.##",
			"########",
			"..#..#..",
			".#.##.#.",
			"#.#..#.#",
		),
		ParseSprite(
			"...##...",
			"..####..",
			".######.",
			"##.##.##",
			"########",
			".#.##.#.",
			"#......#",
			".#....#.",
		),
	},
	{
		ParseSprite(
			"..#.....#..",
			"...#...#...",
			"..#######..",
			".##.###.##.",
			"###########",
			"#.#######.#",
			"#.#.....#.#",
			"...##.##...",
		),
		ParseSprite(
			"..#.....#..",
			"#..#...#..#",
			"#.#######.#",
			"###.###.###",
			"###########",
			".#########.",
			"..#.....#..",
			".#.......#.",
		),
	},
	{
		ParseSprite(
			"....####....",
			".##########.",
			"############",
			"###..##..###",
			"############",
			"...##..##...",
			"..##.##.##..",
			"##........##",
		),
		ParseSprite(
			"....####....",
			".##########.",
			"############",
			"###..##..###",
			"############",
			"..###..###..",
			".##..##..##.",
			"..##....##..",
		),
	},
}

// InvaderSprite returns the sprite for a formation row and animation frame.
func InvaderSprite(row, frame int) *Sprite {
	kinds := Invaders[row%len(Invaders)]
	return kinds[frame&1]
}
