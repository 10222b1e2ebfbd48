package shader

import "testing"

func TestLibraryDeduplicatesVariants(t *testing.T) {
	lib := NewLibrary()

	setA := AttributeSet{HasNormal: true, HasTexCoord0: true}
	setB := AttributeSet{HasNormal: true}

	v1, f1, err := lib.Primitive(setA)
	if err != nil {
		t.Fatalf("Primitive returned error: %v", err)
	}
	v2, f2, err := lib.Primitive(setA)
	if err != nil {
		t.Fatalf("Primitive returned error on cached set: %v", err)
	}
	if v1 != v2 || f1 != f2 {
		t.Error("equal attribute sets produced distinct shader instances")
	}

	v3, _, err := lib.Primitive(setB)
	if err != nil {
		t.Fatalf("Primitive returned error: %v", err)
	}
	if v3 == v1 {
		t.Error("distinct attribute sets share a shader instance")
	}
	if got := lib.VariantCount(); got != 2 {
		t.Errorf("VariantCount() = %d, want 2", got)
	}
}

func TestLibraryRejectsInvalidSet(t *testing.T) {
	lib := NewLibrary()
	if _, _, err := lib.Primitive(AttributeSet{HasTangent: true}); err != nil {
		if got := lib.VariantCount(); got != 0 {
			t.Errorf("VariantCount() = %d after rejected set, want 0", got)
		}
		return
	}
	t.Fatal("Primitive accepted a tangent without a normal")
}
