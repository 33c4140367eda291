// Package apu stubs the NES Audio Processing Unit. Sound synthesis is
// deliberately out of scope; what remains is the CPU-visible register surface
// and the frame-counter IRQ line, since software polls and depends on both
// regardless of whether audio is ever produced.
package apu

// APU is a stub Audio Processing Unit.
type APU struct {
	channelEnable  uint8 // raw $4015 write value, echoed back on status reads
	frameMode      bool  // false = 4-step, true = 5-step
	frameIRQEnable bool
	frameIRQFlag   bool
	frameCounter   uint32
	dmcIRQFlag     bool

	sampleRate int
	cycles     uint64
}

// New creates a new APU stub.
func New() *APU {
	return &APU{
		sampleRate:     44100,
		frameIRQEnable: true,
	}
}

// Reset resets the APU to its power-on state.
func (a *APU) Reset() {
	sampleRate := a.sampleRate
	*a = APU{sampleRate: sampleRate, frameIRQEnable: true}
}

// Step advances the frame counter by one CPU cycle, raising the frame IRQ at
// the end of a 4-step sequence when enabled.
func (a *APU) Step() {
	a.cycles++
	a.frameCounter++

	if a.frameMode {
		if a.frameCounter >= 37282 {
			a.frameCounter = 0
		}
		return
	}

	if a.frameCounter == 29830 {
		if a.frameIRQEnable {
			a.frameIRQFlag = true
		}
		a.frameCounter = 0
	}
}

// WriteRegister absorbs a write to an APU register ($4000-$4017). Only
// $4015 (channel enable) and $4017 (frame counter) have CPU-observable
// effects without synthesis; the channel registers are otherwise discarded.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x4015:
		a.channelEnable = value & 0x1F
		a.dmcIRQFlag = false
	case 0x4017:
		a.frameMode = value&0x80 != 0
		a.frameIRQEnable = value&0x40 == 0
		if !a.frameIRQEnable {
			a.frameIRQFlag = false
		}
		a.frameCounter = 0
		if a.frameMode {
			// Writing the 5-step mode clocks the sequencer immediately;
			// with no channels to clock this only resets timing.
		}
	}
}

// ReadStatus reads the APU status register ($4015): channel-enable echo plus
// the frame and DMC IRQ flags. Reading clears the frame IRQ flag.
func (a *APU) ReadStatus() uint8 {
	status := a.channelEnable & 0x1F
	if a.frameIRQFlag {
		status |= 0x40
	}
	if a.dmcIRQFlag {
		status |= 0x80
	}
	a.frameIRQFlag = false
	return status
}

// GetFrameIRQ reports whether the frame counter IRQ line is asserted.
func (a *APU) GetFrameIRQ() bool {
	return a.frameIRQFlag
}

// GetDMCIRQ reports whether the (unimplemented) DMC IRQ line is asserted.
// Always false: DMC sample playback is audio synthesis and out of scope.
func (a *APU) GetDMCIRQ() bool {
	return a.dmcIRQFlag
}

// GetSamples returns the current audio sample buffer. Always empty: audio
// synthesis is out of scope, so the host renders silence.
func (a *APU) GetSamples() []float32 {
	return nil
}

// SetSampleRate records the host's target sample rate. Unused until
// synthesis is implemented, but kept so the host-facing API doesn't change
// shape if it ever is.
func (a *APU) SetSampleRate(rate int) {
	a.sampleRate = rate
}

// GetSampleRate returns the configured sample rate.
func (a *APU) GetSampleRate() int {
	return a.sampleRate
}
