package symbology

// tableau10 is the primary owner palette.
var tableau10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// css4 is the CSS4 named-colour set in name order, used once the primary
// palette runs out.
var css4 = []string{
	"#F0F8FF", "#FAEBD7", "#00FFFF", "#7FFFD4", "#F0FFFF", // aliceblue .. azure
	"#F5F5DC", "#FFE4C4", "#000000", "#FFEBCD", "#0000FF", // beige .. blue
	"#8A2BE2", "#A52A2A", "#DEB887", "#5F9EA0", "#7FFF00", // blueviolet .. chartreuse
	"#D2691E", "#FF7F50", "#6495ED", "#FFF8DC", "#DC143C", // chocolate .. crimson
	"#00FFFF", "#00008B", "#008B8B", "#B8860B", "#A9A9A9", // cyan .. darkgray
	"#006400", "#A9A9A9", "#BDB76B", "#8B008B", "#556B2F", // darkgreen .. darkolivegreen
	"#FF8C00", "#9932CC", "#8B0000", "#E9967A", "#8FBC8F", // darkorange .. darkseagreen
	"#483D8B", "#2F4F4F", "#2F4F4F", "#00CED1", "#9400D3", // darkslateblue .. darkviolet
	"#FF1493", "#00BFFF", "#696969", "#696969", "#1E90FF", // deeppink .. dodgerblue
	"#B22222", "#FFFAF0", "#228B22", "#FF00FF", "#DCDCDC", // firebrick .. gainsboro
	"#F8F8FF", "#FFD700", "#DAA520", "#808080", "#008000", // ghostwhite .. green
	"#ADFF2F", "#808080", "#F0FFF0", "#FF69B4", "#CD5C5C", // greenyellow .. indianred
	"#4B0082", "#FFFFF0", "#F0E68C", "#E6E6FA", "#FFF0F5", // indigo .. lavenderblush
	"#7CFC00", "#FFFACD", "#ADD8E6", "#F08080", "#E0FFFF", // lawngreen .. lightcyan
	"#FAFAD2", "#D3D3D3", "#90EE90", "#D3D3D3", "#FFB6C1", // lightgoldenrodyellow .. lightpink
	"#FFA07A", "#20B2AA", "#87CEFA", "#778899", "#778899", // lightsalmon .. lightslategrey
	"#B0C4DE", "#FFFFE0", "#00FF00", "#32CD32", "#FAF0E6", // lightsteelblue .. linen
	"#FF00FF", "#800000", "#66CDAA", "#0000CD", "#BA55D3", // magenta .. mediumorchid
	"#9370DB", "#3CB371", "#7B68EE", "#00FA9A", "#48D1CC", // mediumpurple .. mediumturquoise
	"#C71585", "#191970", "#F5FFFA", "#FFE4E1", "#FFE4B5", // mediumvioletred .. moccasin
	"#FFDEAD", "#000080", "#FDF5E6", "#808000", "#6B8E23", // navajowhite .. olivedrab
	"#FFA500", "#FF4500", "#DA70D6", "#EEE8AA", "#98FB98", // orange .. palegreen
	"#AFEEEE", "#DB7093", "#FFEFD5", "#FFDAB9", "#CD853F", // paleturquoise .. peru
	"#FFC0CB", "#DDA0DD", "#B0E0E6", "#800080", "#663399", // pink .. rebeccapurple
	"#FF0000", "#BC8F8F", "#4169E1", "#8B4513", "#FA8072", // red .. salmon
	"#F4A460", "#2E8B57", "#FFF5EE", "#A0522D", "#C0C0C0", // sandybrown .. silver
	"#87CEEB", "#6A5ACD", "#708090", "#708090", "#FFFAFA", // skyblue .. snow
	"#00FF7F", "#4682B4", "#D2B48C", "#008080", "#D8BFD8", // springgreen .. thistle
	"#FF6347", "#40E0D0", "#EE82EE", "#F5DEB3", "#FFFFFF", // tomato .. white
	"#F5F5F5", "#FFFF00", "#9ACD32", // whitesmoke .. yellowgreen
}

// Palette returns at least n colours: the Tableau palette followed by as many
// copies of the CSS4 set as needed.
func Palette(n int) []string {
	colors := append([]string(nil), tableau10...)
	for len(colors) < n {
		colors = append(colors, css4...)
	}
	return colors
}
