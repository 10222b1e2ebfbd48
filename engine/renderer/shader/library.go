package shader

import "sync"

type variantShaders struct {
	vertex   Shader
	fragment Shader
}

// library is the implementation of the Library interface.
type library struct {
	mu       sync.Mutex
	variants map[AttributeSet]variantShaders
}

// Library caches composed primitive shader variants by attribute set. Two
// primitives with equal attribute sets receive the same Shader instances, so
// the renderer can key its pipeline cache on the shader key and compile each
// variant once.
type Library interface {
	// Primitive retrieves the cached vertex and fragment shader pair for an
	// attribute set, composing and caching it on first use.
	//
	// Parameters:
	//   - set: the vertex attribute set describing the variant
	//
	// Returns:
	//   - Shader: the vertex shader for the variant
	//   - Shader: the fragment shader for the variant
	//   - error: an error if the attribute set is contradictory
	Primitive(set AttributeSet) (Shader, Shader, error)

	// VariantCount returns the number of cached primitive variants.
	//
	// Returns:
	//   - int: the number of distinct variants composed so far
	VariantCount() int
}

var _ Library = &library{}

// NewLibrary creates a new empty shader Library.
//
// Returns:
//   - Library: a new Library instance
func NewLibrary() Library {
	return &library{
		variants: make(map[AttributeSet]variantShaders),
	}
}

func (l *library) Primitive(set AttributeSet) (Shader, Shader, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.variants[set]; ok {
		return cached.vertex, cached.fragment, nil
	}

	vertex, fragment, err := ComposePrimitiveShaders(set)
	if err != nil {
		return nil, nil, err
	}
	l.variants[set] = variantShaders{vertex: vertex, fragment: fragment}
	return vertex, fragment, nil
}

func (l *library) VariantCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.variants)
}
