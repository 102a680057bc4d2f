package modules

import (
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-multiboot/internal/memory"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// buildModuleTable lays out a module table at the start of the window and
// name strings behind it, returning the backing bytes.
func buildModuleTable(base types.PAddr, mods []types.ModuleT, names []string) []byte {
	table := make([]byte, len(mods)*types.ModuleEntryLen)
	for i, m := range mods {
		off := i * types.ModuleEntryLen
		binary.LittleEndian.PutUint32(table[off:], m.Start)
		binary.LittleEndian.PutUint32(table[off+4:], m.End)
		binary.LittleEndian.PutUint32(table[off+8:], m.String)
		binary.LittleEndian.PutUint32(table[off+12:], m.Reserved)
	}
	for _, n := range names {
		table = append(table, []byte(n)...)
		table = append(table, 0)
	}
	return table
}

func TestIteratorYieldsCountEntries(t *testing.T) {
	const base = types.PAddr(0x10000)
	strBase := uint32(base) + 2*types.ModuleEntryLen

	mods := []types.ModuleT{
		{Start: 0x200000, End: 0x280000, String: strBase},
		{Start: 0x300000, End: 0x340000, String: strBase + 7},
	}
	data := buildModuleTable(base, mods, []string{"initrd", "config"})

	mem := memory.NewBufferMemory(base, data)
	it := NewIterator(mem, base, 2)

	first, ok := it.Next()
	if !ok {
		t.Fatal("expected first module")
	}
	if first.Start != 0x200000 || first.End != 0x280000 {
		t.Errorf("first = %+v, expected [0x200000, 0x280000)", first)
	}
	if !first.HasName || first.Name != "initrd" {
		t.Errorf("first name = %q (has=%v), expected \"initrd\"", first.Name, first.HasName)
	}
	if first.End <= first.Start {
		t.Error("module end must be greater than start")
	}

	second, ok := it.Next()
	if !ok {
		t.Fatal("expected second module")
	}
	if !second.HasName || second.Name != "config" {
		t.Errorf("second name = %q (has=%v), expected \"config\"", second.Name, second.HasName)
	}

	if _, ok := it.Next(); ok {
		t.Error("iterator yielded more than mods_count entries")
	}
}

func TestIteratorNullNamePointer(t *testing.T) {
	const base = types.PAddr(0x10000)
	mods := []types.ModuleT{{Start: 0x200000, End: 0x201000, String: 0}}
	data := buildModuleTable(base, mods, nil)

	mem := memory.NewBufferMemory(base, data)
	it := NewIterator(mem, base, 1)

	mod, ok := it.Next()
	if !ok {
		t.Fatal("expected module")
	}
	if mod.HasName {
		t.Errorf("expected absent name, got %q", mod.Name)
	}
}

func TestIteratorUnreadableNameDegrades(t *testing.T) {
	const base = types.PAddr(0x10000)
	// Name pointer aims outside the mapped window; the entry must still
	// be yielded with valid addresses.
	mods := []types.ModuleT{{Start: 0x200000, End: 0x201000, String: 0xDEAD0000}}
	data := buildModuleTable(base, mods, nil)

	mem := memory.NewBufferMemory(base, data)
	it := NewIterator(mem, base, 1)

	mod, ok := it.Next()
	if !ok {
		t.Fatal("expected module despite unreadable name")
	}
	if mod.HasName {
		t.Error("expected absent name for unreadable string pointer")
	}
	if mod.Start != 0x200000 || mod.End != 0x201000 {
		t.Errorf("module addresses = %+v, expected [0x200000, 0x201000)", mod)
	}
}

func TestIteratorUnreadableRecordTerminates(t *testing.T) {
	const base = types.PAddr(0x10000)
	mods := []types.ModuleT{{Start: 0x200000, End: 0x201000, String: 0}}
	data := buildModuleTable(base, mods, nil)

	mem := memory.NewBufferMemory(base, data)
	// Claims two records but only one is mapped.
	it := NewIterator(mem, base, 2)

	if _, ok := it.Next(); !ok {
		t.Fatal("expected first module")
	}
	if _, ok := it.Next(); ok {
		t.Error("iterator did not stop on unreadable record")
	}
}

func TestIteratorZeroCount(t *testing.T) {
	mem := memory.NewBufferMemory(0x10000, nil)
	it := NewIterator(mem, 0x10000, 0)
	if _, ok := it.Next(); ok {
		t.Error("expected empty sequence")
	}
}
