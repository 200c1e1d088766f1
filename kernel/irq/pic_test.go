package irq

import "testing"

func TestRemapPIC(t *testing.T) {
	rec, restore := mockPorts(0)
	defer restore()

	remapPIC()

	exp := []portWrite{
		// ICW1
		{picMasterCmd, 0x11},
		{picSlaveCmd, 0x11},
		// ICW2: vector bases 32 and 40
		{picMasterData, 0x20},
		{picSlaveData, 0x28},
		// ICW3: cascade wiring
		{picMasterData, 0x04},
		{picSlaveData, 0x02},
		// ICW4: 8086 mode
		{picMasterData, 0x01},
		{picSlaveData, 0x01},
		// unmask all lines
		{picMasterData, 0x00},
		{picSlaveData, 0x00},
	}

	if len(rec.writes) != len(exp) {
		t.Fatalf("expected %d port writes; got %d", len(exp), len(rec.writes))
	}

	for i, want := range exp {
		if got := rec.writes[i]; got != want {
			t.Errorf("[write %d] expected port 0x%x <- 0x%x; got port 0x%x <- 0x%x",
				i, want.port, want.val, got.port, got.val)
		}
	}
}
