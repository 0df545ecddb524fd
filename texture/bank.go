// Package texture holds the palette-indexed texture and sprite lookup
// tables the renderer samples from: wall/flat textures, the 256-entry
// palette, the light-level colormap and the pre-multiplied shade table
// derived from them, plus the sprite frame/rotation cache. Nothing here
// decodes WAD lumps; the asset loader is the external collaborator that
// fills a Bank once at load time.
package texture

import (
	"fmt"
	"sync"
)

// ID names a texture or flat within a Bank. The zero value, NoTexture, is
// always bound to a visible placeholder so a missing reference never
// produces an unsampled column.
type ID uint16

// NoTexture is the reserved ID of the bank's placeholder texture.
const NoTexture ID = 0

// Texture is one palette-indexed image: W*H bytes, each a palette index.
type Texture struct {
	Name   string
	W, H   int
	Pixels []uint8
}

// DefaultTexture returns an 8x8 checkerboard, used as the bank's built-in
// placeholder so a bad or missing texture reference still renders as
// something conspicuous rather than crashing the column sampler.
func DefaultTexture() Texture {
	const size = 8
	px := make([]uint8, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 {
				px[y*size+x] = 8
			} else {
				px[y*size+x] = 16
			}
		}
	}
	return Texture{Name: "MISSING", W: size, H: size, Pixels: px}
}

// Palette is 256 packed 0xAARRGGBB colors.
type Palette [256]uint32

// Colormap maps a shade row (0..33) and a palette index (0..255) to a
// palette index darkened for that row; row 0 is full bright, row 33 is
// black. Doom ships 34 rows: 32 light levels, one totally black row, and
// one "invulnerability" row this renderer never selects.
type Colormap [34][256]uint8

// Error reports a texture bank operation that can't proceed: a duplicate
// name on insert, or a lookup against an ID the bank never assigned.
type Error struct {
	Op  string
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("texture: %s: %s", e.Op, e.Msg) }

func errDuplicate(name string) error {
	return &Error{Op: "insert", Msg: fmt.Sprintf("duplicate texture name %q", name)}
}

func errBadID(id ID) error {
	return &Error{Op: "lookup", Msg: fmt.Sprintf("unknown texture id %d", id)}
}

// spriteKey packs a 4-character sprite code, frame letter and rotation
// digit into a single comparable map key, mirroring
// original_source/src/world/texture.rs's pack_sprite_code/sprite_key.
type spriteKey uint64

func packSpriteCode(code [4]byte) uint32 {
	return uint32(code[0]) | uint32(code[1])<<8 | uint32(code[2])<<16 | uint32(code[3])<<24
}

func makeSpriteKey(code [4]byte, frame byte, rot uint8) spriteKey {
	return spriteKey(packSpriteCode(code))<<32 | spriteKey(frame)<<8 | spriteKey(rot)
}

// SpriteRef is the result of a sprite lookup: the texture to sample and
// whether its columns must be read right-to-left (a mirrored rotation
// lump).
type SpriteRef struct {
	Tex  ID
	Flip bool
}

// Bank owns every texture, the palette/colormap pair derived from the
// loaded map's PLAYPAL/COLORMAP lumps, the shade table built from them,
// and the sprite frame/rotation cache.
type Bank struct {
	byName map[string]ID
	data   []Texture

	palette  Palette
	colormap Colormap
	// shadeTable is a flattened [34][256]uint32 of pre-multiplied ARGB:
	// shadeTable[row<<8|texel] = palette[colormap[row][texel]]. Built once
	// per load so the per-column sampler is a single slice index, never a
	// double indirection through palette+colormap.
	shadeTable []uint32

	sprites map[spriteKey]SpriteRef
}

// NewBank creates a Bank seeded with the built-in placeholder texture
// under ID NoTexture.
func NewBank() *Bank {
	b := &Bank{
		byName:  make(map[string]ID),
		sprites: make(map[spriteKey]SpriteRef),
	}
	placeholder := DefaultTexture()
	b.data = append(b.data, placeholder)
	b.byName[placeholder.Name] = NoTexture
	return b
}

// Insert adds tex to the bank under a fresh ID, rejecting a name already
// present.
func (b *Bank) Insert(tex Texture) (ID, error) {
	if _, ok := b.byName[tex.Name]; ok {
		return 0, errDuplicate(tex.Name)
	}
	id := ID(len(b.data))
	b.data = append(b.data, tex)
	b.byName[tex.Name] = id
	return id, nil
}

// ID looks up a texture by name.
func (b *Bank) ID(name string) (ID, bool) {
	id, ok := b.byName[name]
	return id, ok
}

// IDOrMissing looks up a texture by name, falling back to NoTexture rather
// than failing: missing flats/textures are common in partially-loaded test
// maps and should render as the placeholder, not abort the frame.
func (b *Bank) IDOrMissing(name string) ID {
	if id, ok := b.byName[name]; ok {
		return id
	}
	return NoTexture
}

// Texture returns the texture bound to id.
func (b *Bank) Texture(id ID) (*Texture, error) {
	if int(id) >= len(b.data) {
		return nil, errBadID(id)
	}
	return &b.data[id], nil
}

// SetPalette installs the bank's 256-color palette.
func (b *Bank) SetPalette(p Palette) { b.palette = p }

// SetColormap installs the bank's 34-row light colormap.
func (b *Bank) SetColormap(c Colormap) { b.colormap = c }

// BuildShadeTable derives the flattened, pre-multiplied ARGB shade table
// from the currently installed palette and colormap. Call once after both
// are set; 34*256 = 8704 entries split across a small bounded worker pool
// per row (a buffered-channel semaphore plus a sync.WaitGroup), the one
// place texture loading does real concurrent work.
func (b *Bank) BuildShadeTable(workers int) {
	if workers < 1 {
		workers = 1
	}
	const rows = 34
	const cols = 256
	table := make([]uint32, rows*cols)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for row := 0; row < rows; row++ {
		row := row
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			for texel := 0; texel < cols; texel++ {
				palIdx := b.colormap[row][texel]
				table[row*cols+texel] = b.palette[palIdx]
			}
		}()
	}
	wg.Wait()
	b.shadeTable = table
}

// GetColor returns the pre-shaded ARGB color for a shade row and a raw
// texel (a palette index read straight from a Texture's Pixels).
func (b *Bank) GetColor(shadeIdx int, texel uint8) uint32 {
	return b.shadeTable[shadeIdx<<8|int(texel)]
}

// ShadeRowCount is the number of rows BuildShadeTable produces.
func (b *Bank) ShadeRowCount() int { return len(b.shadeTable) / 256 }

// RegisterSprite binds a sprite lump name (Doom's 6- or 8-character
// "TROOA6" / "POSSB8B2" convention: 4-char code, frame letter, rotation
// digit, optionally mirrored for a second rotation) to a texture ID.
func (b *Bank) RegisterSprite(lumpName string, tex ID) error {
	code, frame, rot1, rot2, flip2, err := parseSpriteLump(lumpName)
	if err != nil {
		return err
	}
	b.sprites[makeSpriteKey(code, frame, rot1)] = SpriteRef{Tex: tex, Flip: false}
	if rot2 != 0 {
		b.sprites[makeSpriteKey(code, frame, rot2)] = SpriteRef{Tex: tex, Flip: flip2}
	}
	return nil
}

func parseSpriteLump(name string) (code [4]byte, frame byte, rot1, rot2 uint8, flip2 bool, err error) {
	if len(name) != 6 && len(name) != 8 {
		return code, 0, 0, 0, false, fmt.Errorf("texture: sprite lump %q has an unexpected length", name)
	}
	copy(code[:], name[0:4])
	frame = name[4]
	rot1 = uint8(name[5] - '0')
	if len(name) == 8 {
		// The second frame/rotation pair names the same frame seen from
		// its mirror-image rotation, so it's always flagged flipped.
		rot2 = uint8(name[7] - '0')
		flip2 = true
	}
	return code, frame, rot1, rot2, flip2, nil
}

// SpriteID resolves a (code, frame, viewing rotation) triple to a texture
// reference. An exact rotation match wins; otherwise it falls back to the
// billboard rotation 0 (never mirrored), then to NoTexture if even that is
// absent.
func (b *Bank) SpriteID(code [4]byte, frame byte, rot uint8) SpriteRef {
	if ref, ok := b.sprites[makeSpriteKey(code, frame, rot)]; ok {
		return ref
	}
	if rot != 0 {
		if ref, ok := b.sprites[makeSpriteKey(code, frame, 0)]; ok {
			return SpriteRef{Tex: ref.Tex, Flip: false}
		}
	}
	return SpriteRef{Tex: NoTexture}
}
