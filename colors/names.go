package colors

// CSS level 1 and 2 basic color keywords.
var basicColorNames = []string{
	"black", "silver", "gray", "white", "maroon", "red", "purple", "fuchsia", "green", "lime",
	"olive", "yellow", "navy", "blue", "teal", "aqua", "orange",
}

// CSS level 3 extended keywords and rebeccapurple from level 4.
var extendedColorNames = []string{
	"aliceblue", "antiquewhite", "aquamarine", "azure", "beige", "bisque", "blanchedalmond",
	"blueviolet", "brown", "burlywood", "cadetblue", "chartreuse", "chocolate", "coral",
	"cornflowerblue", "cornsilk", "crimson", "cyan", "darkblue", "darkcyan", "darkgoldenrod",
	"darkgray", "darkgreen", "darkgrey", "darkkhaki", "darkmagenta", "darkolivegreen", "darkorange",
	"darkorchid", "darkred", "darksalmon", "darkseagreen", "darkslateblue", "darkslategray",
	"darkslategrey", "darkturquoise", "darkviolet", "deeppink", "deepskyblue", "dimgray", "dimgrey",
	"dodgerblue", "firebrick", "floralwhite", "forestgreen", "gainsboro", "ghostwhite", "gold",
	"goldenrod", "greenyellow", "grey", "honeydew", "hotpink", "indianred", "indigo", "ivory",
	"khaki", "lavender", "lavenderblush", "lawngreen", "lemonchiffon", "lightblue", "lightcoral",
	"lightcyan", "lightgoldenrodyellow", "lightgray", "lightgreen", "lightgrey", "lightpink",
	"lightsalmon", "lightseagreen", "lightskyblue", "lightslategray", "lightslategrey",
	"lightsteelblue", "lightyellow", "limegreen", "linen", "magenta", "mediumaquamarine",
	"mediumblue", "mediumorchid", "mediumpurple", "mediumseagreen", "mediumslateblue",
	"mediumspringgreen", "mediumturquoise", "mediumvioletred", "midnightblue", "mintcream",
	"mistyrose", "moccasin", "navajowhite", "oldlace", "olivedrab", "orangered", "orchid",
	"palegoldenrod", "palegreen", "paleturquoise", "palevioletred", "papayawhip", "peachpuff", "peru",
	"pink", "plum", "powderblue", "rosybrown", "royalblue", "saddlebrown", "salmon", "sandybrown",
	"seagreen", "seashell", "sienna", "skyblue", "slateblue", "slategray", "slategrey", "snow",
	"springgreen", "steelblue", "tan", "thistle", "tomato", "turquoise", "violet", "wheat",
	"whitesmoke", "yellowgreen", "rebeccapurple",
}
