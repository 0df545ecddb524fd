package texture

import "testing"

func dummyTexture(name string, color uint8) Texture {
	return Texture{Name: name, W: 2, H: 2, Pixels: []uint8{color, color, color, color}}
}

func TestInsertAndLookup(t *testing.T) {
	b := NewBank()
	id, err := b.Insert(dummyTexture("FLOOR4_8", 3))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == NoTexture {
		t.Fatalf("a freshly inserted texture should never get the reserved NoTexture id")
	}

	got, ok := b.ID("FLOOR4_8")
	if !ok || got != id {
		t.Fatalf("ID lookup = (%v,%v), want (%v,true)", got, ok, id)
	}

	tex, err := b.Texture(id)
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	if tex.Name != "FLOOR4_8" {
		t.Fatalf("Texture(%d).Name = %q, want FLOOR4_8", id, tex.Name)
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	b := NewBank()
	if _, err := b.Insert(dummyTexture("DUP", 1)); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if _, err := b.Insert(dummyTexture("DUP", 2)); err == nil {
		t.Fatalf("inserting a duplicate name should fail")
	}
}

func TestBadIDGuard(t *testing.T) {
	b := NewBank()
	if _, err := b.Texture(ID(9999)); err == nil {
		t.Fatalf("looking up an unassigned id should fail")
	}
}

func TestIDOrMissingFallsBack(t *testing.T) {
	b := NewBank()
	if got := b.IDOrMissing("NOPE"); got != NoTexture {
		t.Fatalf("IDOrMissing for an unknown name = %d, want NoTexture", got)
	}
}

func TestBuildShadeTableIdentityColormap(t *testing.T) {
	b := NewBank()
	var pal Palette
	for i := range pal {
		pal[i] = 0xFF000000 | uint32(i)
	}
	var cm Colormap
	for row := range cm {
		for col := range cm[row] {
			cm[row][col] = uint8(col)
		}
	}
	b.SetPalette(pal)
	b.SetColormap(cm)
	b.BuildShadeTable(3)

	for row := 0; row < 34; row++ {
		for texel := 0; texel < 256; texel++ {
			got := b.GetColor(row, uint8(texel))
			want := pal[texel]
			if got != want {
				t.Fatalf("GetColor(%d,%d) = %#x, want %#x", row, texel, got, want)
			}
		}
	}
}

func TestRegisterSpriteSingleRotation(t *testing.T) {
	b := NewBank()
	id, _ := b.Insert(dummyTexture("TROOA1", 5))
	if err := b.RegisterSprite("TROOA1", id); err != nil {
		t.Fatalf("RegisterSprite: %v", err)
	}

	ref := b.SpriteID([4]byte{'T', 'R', 'O', 'O'}, 'A', 1)
	if ref.Tex != id || ref.Flip {
		t.Fatalf("SpriteID exact match = %+v, want {%v false}", ref, id)
	}
}

func TestRegisterSpriteMirroredRotation(t *testing.T) {
	b := NewBank()
	id, _ := b.Insert(dummyTexture("POSSB8B2", 7))
	if err := b.RegisterSprite("POSSB8B2", id); err != nil {
		t.Fatalf("RegisterSprite: %v", err)
	}

	primary := b.SpriteID([4]byte{'P', 'O', 'S', 'S'}, 'B', 8)
	if primary.Tex != id || primary.Flip {
		t.Fatalf("primary rotation = %+v, want unflipped", primary)
	}
	mirrored := b.SpriteID([4]byte{'P', 'O', 'S', 'S'}, 'B', 2)
	if mirrored.Tex != id || !mirrored.Flip {
		t.Fatalf("mirrored rotation = %+v, want flipped", mirrored)
	}
}

func TestSpriteIDFallsBackToBillboardRotation(t *testing.T) {
	b := NewBank()
	id, _ := b.Insert(dummyTexture("TROOA0", 9))
	if err := b.RegisterSprite("TROOA0", id); err != nil {
		t.Fatalf("RegisterSprite: %v", err)
	}

	ref := b.SpriteID([4]byte{'T', 'R', 'O', 'O'}, 'A', 5)
	if ref.Tex != id || ref.Flip {
		t.Fatalf("billboard fallback = %+v, want {%v false}", ref, id)
	}
}

func TestSpriteIDMissingReturnsNoTexture(t *testing.T) {
	b := NewBank()
	ref := b.SpriteID([4]byte{'N', 'O', 'P', 'E'}, 'A', 0)
	if ref.Tex != NoTexture {
		t.Fatalf("unregistered sprite = %+v, want NoTexture", ref)
	}
}
