package buffer

import "github.com/indigo-web/utils/uf"

// Field is the smallest capacity class, used for individual extracted values such as
// route variables. Unlike Buffer, the storage is an inline array, so a slice of Fields
// is a single contiguous allocation.
type Field struct {
	memory [FieldSize]byte
	len    uint8
}

// Set copies the value into the field. Values longer than FieldSize are refused.
func (f *Field) Set(value string) error {
	if len(value) > FieldSize {
		return ErrOverflow
	}

	f.len = uint8(copy(f.memory[:], value))
	return nil
}

// String returns a view over the stored value, valid until the next Set or Reset.
func (f *Field) String() string {
	return uf.B2S(f.memory[:f.len])
}

func (f *Field) Len() int {
	return int(f.len)
}

func (f *Field) Reset() {
	f.len = 0
}
