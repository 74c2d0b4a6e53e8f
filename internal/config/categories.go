package config

var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🎵 Music":        10,
	"⚙️ Settings":    20,
}
