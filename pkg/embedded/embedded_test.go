package embedded

import (
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/game.yaml":           {Data: []byte("poolSize: 16\n")},
		"data/stages/stage-1.yaml": {Data: []byte("id: stage-1\n")},
		"data/stages/stage-2.yaml": {Data: []byte("id: stage-2\n")},
	}
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	Init(nil)
	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false for nil FS")
	}

	Init(testFS())
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestReadFileNotInitialized 测试未初始化时读取
func TestReadFileNotInitialized(t *testing.T) {
	Init(nil)
	if _, err := ReadFile("data/game.yaml"); err == nil {
		t.Error("Expected error when package is not initialized")
	}
}

func TestReadFile(t *testing.T) {
	Init(testFS())

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"plain path", "data/game.yaml", "poolSize: 16\n", false},
		{"dot prefix", "./data/game.yaml", "poolSize: 16\n", false},
		{"missing file", "data/missing.yaml", "", true},
		{"unknown prefix", "assets/x.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && string(data) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, data, tt.want)
			}
		})
	}
}

func TestGlobAndExists(t *testing.T) {
	Init(testFS())

	matches, err := Glob("data/stages/*.yaml")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 stage files, got %v", matches)
	}

	if !Exists("data/stages/stage-1.yaml") {
		t.Error("stage-1.yaml should exist")
	}
	if Exists("data/stages/stage-9.yaml") {
		t.Error("stage-9.yaml should not exist")
	}
}
