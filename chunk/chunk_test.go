package chunk

import (
	"testing"

	"nilan/value"
)

func TestWriteKeepsCodeAndLinesInSync(t *testing.T) {
	c := New()
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpPrint, 2)
	c.WriteOp(OpReturn, 2)

	if len(c.Code) != len(c.Lines) {
		t.Fatalf("len(code)=%d != len(lines)=%d", len(c.Code), len(c.Lines))
	}
	wantLines := []int{1, 2, 2}
	for i, want := range wantLines {
		if c.Lines[i] != want {
			t.Errorf("Lines[%d] = %d, want %d", i, c.Lines[i], want)
		}
	}
}

func TestAddConstantReturnsNewIndex(t *testing.T) {
	c := New()
	i0 := c.AddConstant(value.Number(1))
	i1 := c.AddConstant(value.Number(2))

	if i0 != 0 || i1 != 1 {
		t.Errorf("indices = %d, %d, want 0, 1", i0, i1)
	}
	if len(c.Constants) != 2 {
		t.Errorf("len(Constants) = %d, want 2", len(c.Constants))
	}
}

func TestOperandBytesMatchesEncodingTable(t *testing.T) {
	tests := []struct {
		op   OpCode
		want int
	}{
		{OpConstant, 1},
		{OpGetGlobal, 1},
		{OpSetGlobal, 1},
		{OpDefineGlobal, 1},
		{OpNil, 0},
		{OpPop, 0},
		{OpAdd, 0},
		{OpReturn, 0},
	}
	for _, tt := range tests {
		if got := OperandBytes(tt.op); got != tt.want {
			t.Errorf("OperandBytes(%s) = %d, want %d", tt.op, got, tt.want)
		}
	}
}

func TestOpCodeStringUsesOpName(t *testing.T) {
	if OpAdd.String() != "OP_ADD" {
		t.Errorf("OpAdd.String() = %q", OpAdd.String())
	}
}
