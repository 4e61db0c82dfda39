package chart

// Palette is the fixed colour cycle used for datasets and radial points.
var Palette = [...]string{
	"rgba(75, 192, 192, 0.6)",
	"rgba(255, 99, 132, 0.6)",
	"rgba(255, 205, 86, 0.6)",
	"rgba(54, 162, 235, 0.6)",
}

// Color returns the palette colour for a zero-based series index, cycling
// once the index passes the end of the palette.
func Color(i int) string {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}
