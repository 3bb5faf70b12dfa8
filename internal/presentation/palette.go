package presentation

// Set2 is the qualitative palette shared by every categorical chart.
var Set2 = []string{
	"#66c2a5",
	"#fc8d62",
	"#8da0cb",
	"#e78ac3",
	"#a6d854",
	"#ffd92f",
	"#e5c494",
	"#b3b3b3",
}

// Viridis is the continuous scale used by the heatmap.
const Viridis = "Viridis"
