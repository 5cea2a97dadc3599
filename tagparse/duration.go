package tagparse

// Duration here is an ingest-time snapshot for display and seeking, not a
// decoder: it reads the first MPEG audio frame header after the tag block
// and assumes constant bitrate for the rest of the stream.

// Bitrates in kbit/s, indexed by the 4-bit header field.
var (
	bitratesV1L3 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitratesV2L3 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

var sampleRatesV1 = [4]int{44100, 48000, 32000, 0}

// EstimateDuration estimates the playable length in seconds of an MPEG
// audio stream, skipping any leading ID3v2 tag block. Returns 0 when no
// valid frame header is found.
func EstimateDuration(data []byte) float64 {
	start := 0
	if len(data) >= id3HeaderSize && string(data[0:3]) == "ID3" {
		start = id3HeaderSize + DecodeSynchsafe(data[6:10])
	}
	if start >= len(data) {
		return 0
	}

	for i := start; i+4 <= len(data); i++ {
		if data[i] != 0xFF || data[i+1]&0xE0 != 0xE0 {
			continue
		}

		versionBits := data[i+1] >> 3 & 0x03 // 3 = MPEG1, 2 = MPEG2
		layerBits := data[i+1] >> 1 & 0x03   // 1 = Layer III
		if versionBits == 1 || layerBits != 1 {
			continue
		}

		bitrateIdx := data[i+2] >> 4
		sampleIdx := data[i+2] >> 2 & 0x03

		var bitrate int
		if versionBits == 3 {
			bitrate = bitratesV1L3[bitrateIdx]
		} else {
			bitrate = bitratesV2L3[bitrateIdx]
		}
		if bitrate == 0 || sampleRatesV1[sampleIdx] == 0 {
			continue
		}

		audioBytes := len(data) - i
		return float64(audioBytes) * 8 / float64(bitrate*1000)
	}

	return 0
}
