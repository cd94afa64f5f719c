package scoring

// Block is one taste dimension with the keywords that describe it.
type Block struct {
	Name        string   `json:"name"`
	Keywords    []string `json:"keywords"`
	Weight      float64  `json:"weight"`
	Description string   `json:"description"`
	Gloss       string   `json:"gloss"`

	positive   string
	mitigating string
}

// Block names in catalog order.
const (
	Douceur    = "Douceur"
	Acidite    = "Acidite"
	Amertume   = "Amertume"
	Force      = "Force"
	Fraicheur  = "Fraicheur"
	Complexite = "Complexite"
	Exotisme   = "Exotisme"
)

var blocks = []Block{
	{
		Name:        Douceur,
		Keywords:    []string{"sucre", "doux", "sweet", "sirop", "miel", "caramel", "vanille", "fruit"},
		Weight:      1.0,
		Description: "Niveau de sucrosite et douceur du cocktail",
		Gloss:       "sweetness",
		positive:    "doux et sucre",
		mitigating:  "peu sucre",
	},
	{
		Name:        Acidite,
		Keywords:    []string{"acide", "citron", "lime", "agrume", "tart", "sour", "acidule", "pamplemousse"},
		Weight:      1.0,
		Description: "Niveau d'acidite et de fraicheur citronnee",
		Gloss:       "acidity",
		positive:    "acidule et frais",
		mitigating:  "peu acide",
	},
	{
		Name:        Amertume,
		Keywords:    []string{"amer", "bitter", "campari", "angostura", "gentiane", "fernet", "aperol"},
		Weight:      1.0,
		Description: "Niveau d'amertume et de complexite",
		Gloss:       "bitterness",
		positive:    "avec une touche amere",
		mitigating:  "pas trop amer",
	},
	{
		Name:        Force,
		Keywords:    []string{"fort", "strong", "alcool", "spirit", "puissant", "intense", "whisky", "rhum"},
		Weight:      1.2,
		Description: "Teneur en alcool et puissance du cocktail",
		Gloss:       "strength",
		positive:    "plutot fort en alcool",
		mitigating:  "leger en alcool",
	},
	{
		Name:        Fraicheur,
		Keywords:    []string{"frais", "fresh", "menthe", "concombre", "glace", "rafraichissant", "ete", "cool"},
		Weight:      1.0,
		Description: "Sensation de fraicheur et de legerete",
		Gloss:       "freshness",
		positive:    "rafraichissant",
		mitigating:  "doux et rond",
	},
	{
		Name:        Complexite,
		Keywords:    []string{"complexe", "elabore", "layers", "nuance", "subtil", "sophistique", "expert"},
		Weight:      0.8,
		Description: "Complexite aromatique et technique de preparation",
		Gloss:       "complexity",
		positive:    "elabore et sophistique",
		mitigating:  "simple et direct",
	},
	{
		Name:        Exotisme,
		Keywords:    []string{"tropical", "exotique", "coco", "ananas", "passion", "mangue", "rhum", "tiki"},
		Weight:      0.8,
		Description: "Caractere tropical et depaysant",
		Gloss:       "exoticism",
		positive:    "tropical et depaysant",
		mitigating:  "classique",
	},
}

// Blocks returns a copy of the taste block catalog in catalog order.
func Blocks() []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		b.Keywords = append([]string(nil), b.Keywords...)
		out[i] = b
	}
	return out
}

// BlockNames returns the block names in catalog order.
func BlockNames() []string {
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.Name
	}
	return names
}

// IsBlock reports whether name is a taste block.
func IsBlock(name string) bool {
	for _, b := range blocks {
		if b.Name == name {
			return true
		}
	}
	return false
}
