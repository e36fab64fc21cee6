// internal/words/words.go
package words

// CategoryCustom is the category reported for words that do not belong to any
// built-in list, i.e. custom words supplied by a host at room creation.
const CategoryCustom = "personalizada"

// categories holds the built-in Spanish word lists. The content is static and
// read-only; it is never mutated at runtime.
var categories = map[string][]string{
	"animales": {
		"león", "tigre", "elefante", "jirafa", "oso", "lobo", "zorro", "conejo", "ratón", "gato",
		"perro", "caballo", "vaca", "cerdo", "oveja", "pollo", "pato", "águila", "búho", "loro",
		"pingüino", "delfín", "tiburón", "ballena", "pulpo", "pez", "rana", "tortuga", "araña", "abeja",
		"mariposa", "hormiga", "caracol", "murciélago", "canguro", "koala", "mono", "chimpancé", "gorila", "serpiente",
		"cocodrilo", "lagarto", "iguana", "foca", "orca", "cangrejo", "langosta", "hámster", "erizo", "ardilla",
	},
	"comidas": {
		"pizza", "hamburguesa", "hot dog", "taco", "pasta", "espagueti", "sushi", "helado", "chocolate", "queso",
		"pan", "leche", "huevo", "pollo", "pescado", "carne", "jamón", "tocino", "salchicha", "arroz",
		"tomate", "lechuga", "cebolla", "zanahoria", "papa", "maíz", "frijoles", "aguacate", "pepino", "apio",
		"manzana", "banana", "naranja", "limón", "fresa", "uva", "piña", "mango", "sandía", "melón",
		"cookie", "pastel", "torta", "donut", "yogurt", "mantequilla", "azúcar", "sal", "café", "té",
	},
	"lugares": {
		"playa", "montaña", "bosque", "lago", "río", "parque", "jardín", "plaza", "estadio", "cine",
		"museo", "biblioteca", "escuela", "hospital", "farmacia", "banco", "supermercado", "restaurante", "café", "hotel",
		"aeropuerto", "estación", "casa", "apartamento", "oficina", "cocina", "baño", "dormitorio", "sala", "garage",
		"iglesia", "ciudad", "pueblo", "calle", "puente", "zoológico", "piscina", "cancha", "gimnasio", "mall",
		"tienda", "mercado", "panadería", "carnicería", "peluquería", "dentista", "correo", "gasolinera", "taller", "lavandería",
	},
	"deportes": {
		"fútbol", "baloncesto", "tenis", "voleibol", "béisbol", "golf", "hockey", "natación", "ciclismo", "atletismo",
		"boxeo", "karate", "judo", "gimnasia", "yoga", "ping pong", "esquí", "patinaje", "surf", "pesca",
		"correr", "caminar", "saltar", "lanzar", "pelear", "competir", "entrenar", "ganar", "perder", "empatar",
		"equipo", "jugador", "entrenador", "árbitro", "cancha", "pelota", "balón", "raqueta", "red", "gol",
		"punto", "set", "partido", "torneo", "campeonato", "medalla", "trofeo", "premio", "récord", "estadio",
	},
	"tecnologia": {
		"computadora", "laptop", "tablet", "teléfono", "televisión", "radio", "cámara", "micrófono", "auriculares", "parlante",
		"teclado", "mouse", "monitor", "impresora", "cable", "batería", "cargador", "wifi", "internet", "email",
		"app", "programa", "juego", "video", "foto", "música", "película", "serie", "canal", "antena",
		"control", "botón", "pantalla", "volumen", "brillo", "sonido", "imagen", "archivo", "carpeta", "documento",
		"mensaje", "chat", "llamada", "videollamada", "redes sociales", "facebook", "instagram", "whatsapp", "youtube", "google",
	},
	"musica": {
		"guitarra", "piano", "violín", "flauta", "trompeta", "batería", "tambor", "maracas", "pandereta", "triángulo",
		"canción", "melodía", "ritmo", "letra", "coro", "verso", "estribillo", "solo", "banda", "grupo",
		"rock", "pop", "salsa", "merengue", "bachata", "reggae", "jazz", "blues", "rap", "tango",
		"cantante", "músico", "compositor", "director", "concierto", "festival", "disco", "álbum", "sencillo", "hit",
		"radio", "playlist", "karaoke", "baile", "danza", "coreografía", "escenario", "micrófono", "amplificador", "bocina",
	},
	"objetos": {
		"mesa", "silla", "sofá", "cama", "lámpara", "espejo", "vaso", "plato", "cuchara", "tenedor",
		"libro", "lápiz", "bolígrafo", "cuaderno", "teléfono", "reloj", "bolsa", "zapato", "camisa", "pantalón",
		"sombrero", "gafas", "anillo", "collar", "jabón", "toalla", "cepillo", "peine", "tijeras", "televisor",
		"radio", "control", "refrigerador", "estufa", "horno", "olla", "sartén", "escoba", "llave", "puerta",
		"ventana", "cortina", "almohada", "sábana", "cobija", "botón", "cremallera", "cordón", "moneda", "billete",
	},
	"otros": {
		"amor", "amistad", "familia", "felicidad", "tristeza", "miedo", "sorpresa", "sueño", "tiempo", "día",
		"noche", "mañana", "tarde", "sol", "luna", "estrella", "lluvia", "viento", "nieve", "fuego",
		"agua", "tierra", "aire", "calor", "frío", "luz", "sombra", "color", "sonido", "silencio",
		"grande", "pequeño", "alto", "bajo", "largo", "corto", "rápido", "lento", "fuerte", "débil",
		"nuevo", "viejo", "limpio", "sucio", "fácil", "difícil", "bueno", "malo", "bonito", "feo",
	},
}

// byWord is the reverse lookup, built once at package init. When a word
// appears in multiple categories the first category in defaultPoolOrder wins,
// so CategoryOf is deterministic across runs.
var byWord = buildReverseIndex()

// defaultPoolOrder fixes both the iteration order for the reverse index and
// the composition of the default pool.
var defaultPoolOrder = []string{
	"animales", "comidas", "lugares", "deportes", "tecnologia", "musica", "objetos", "otros",
}

// defaultPoolSizes is how many words each category contributes to the default
// pool, aligned with defaultPoolOrder.
var defaultPoolSizes = []int{8, 8, 6, 6, 6, 6, 10, 5}

func buildReverseIndex() map[string]string {
	idx := make(map[string]string)
	for _, name := range defaultPoolOrder {
		for _, w := range categories[name] {
			if _, taken := idx[w]; !taken {
				idx[w] = name
			}
		}
	}
	return idx
}

// Categories returns the built-in category word lists. Callers must treat the
// returned map and slices as read-only.
func Categories() map[string][]string {
	return categories
}

// CategoryNames returns the built-in category names in their fixed order.
func CategoryNames() []string {
	names := make([]string, len(defaultPoolOrder))
	copy(names, defaultPoolOrder)
	return names
}

// DefaultPool returns the word pool used when a room is created without
// custom words: a fixed prefix of every category. The content is identical on
// every call; the returned slice is a fresh copy the caller may reorder.
func DefaultPool() []string {
	var pool []string
	for i, name := range defaultPoolOrder {
		pool = append(pool, categories[name][:defaultPoolSizes[i]]...)
	}
	return pool
}

// FromCategories returns the union of the named category lists, preserving
// the fixed category order and skipping unknown names. An empty result means
// none of the names matched a built-in category.
func FromCategories(names ...string) []string {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var pool []string
	for _, name := range defaultPoolOrder {
		if wanted[name] {
			pool = append(pool, categories[name]...)
		}
	}
	return pool
}

// CategoryOf returns the category owning word, or CategoryCustom for words
// outside the built-in lists.
func CategoryOf(word string) string {
	if cat, ok := byWord[word]; ok {
		return cat
	}
	return CategoryCustom
}
