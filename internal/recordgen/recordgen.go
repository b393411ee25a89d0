package recordgen

import (
	"fmt"
	"github.com/gostonefire/statichash/internal/model"
	"math/rand/v2"
)

var names = []string{
	"Yannis", "Christofos", "Sofia", "Marianna", "Vagelis", "Maria", "Iosif", "Dionisis", "Konstantina", "Theofilos",
	"Giorgos", "Dimitris",
}

var surnames = []string{
	"Ioannidis", "Svingos", "Karvounari", "Rezkalla", "Nikolopoulos", "Berreta", "Koronis", "Gaitanis", "Oikonomou",
	"Mailis", "Michas", "Halatsis",
}

var cities = []string{
	"Athens", "San Francisco", "Los Angeles", "Amsterdam", "London", "New York", "Tokyo", "Hong Kong", "Munich",
	"Miami",
}

// Generator - Produces pseudo random records with attribute values drawn from small fixed pools, so that values
// repeat and collide in secondary indexes
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator - Returns a pointer to a Generator producing a reproducible sequence for the seed
func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Record - Returns a record with the given identifier and random attributes
func (G *Generator) Record(id int32) model.Record {
	return model.Record{
		Id:      id,
		Name:    names[G.rnd.IntN(len(names))],
		Surname: surnames[G.rnd.IntN(len(surnames))],
		City:    cities[G.rnd.IntN(len(cities))],
		Text:    fmt.Sprintf("rec-%d", id),
	}
}

// UniqueSurname - Returns a surname that never appears among generated records
func UniqueSurname(n int) string {
	return fmt.Sprintf("Unique%d", n)
}
