package queue

// QueueNormal is the general purpose queue on gadi.
const QueueNormal = "normal"

var gadi = mustRegistry(
	New(QueueNormal, 2, 48, 192, []WalltimeTier{{48, 672}, {24, 1440}, {10, 2976}, {5, 20736}}),
	New("express", 6, 48, 192, []WalltimeTier{{24, 48}, {5, 3168}}),
	New("hugemem", 3, 48, 1470, []WalltimeTier{{48, 48}, {24, 96}, {5, 192}}),
	New("megamem", 5, 48, 2990, []WalltimeTier{{48, 48}, {24, 96}}),
	New("gpuvolta", 3, 12, 382, []WalltimeTier{{48, 96}, {24, 192}, {5, 960}}),
	New("normalbw", 1.25, 28, 256, []WalltimeTier{{48, 336}, {24, 840}, {10, 1736}, {5, 10080}}),
	New("expressbw", 3.75, 28, 256, []WalltimeTier{{24, 280}, {5, 1848}}),
	New("normalsl", 1.5, 32, 192, []WalltimeTier{{48, 288}, {24, 608}, {10, 1984}, {5, 3200}}),
	New("hugemembw", 1.25, 28, 1020, []WalltimeTier{{48, 28}, {12, 140}}),
	New("megamembw", 1.25, 64, 3000, []WalltimeTier{{48, 32}, {12, 64}}),
	New("copyq", 2, 1, 192, []WalltimeTier{{1, 10}}),
	New("dgxa100", 4.5, 16, 2000, []WalltimeTier{{48, 128}, {5, 256}}),
	New("normalsr", 2, 104, 500, []WalltimeTier{{48, 1040}, {24, 2080}, {10, 4160}, {5, 10400}}),
	New("expresssr", 6, 104, 500, []WalltimeTier{{24, 1040}, {5, 2080}}),
)

// Default returns the built-in gadi queue registry.
func Default() *Registry {
	return gadi
}

func mustRegistry(queues ...*Queue) *Registry {
	r, err := NewRegistry(queues...)
	if err != nil {
		panic(err)
	}
	return r
}
