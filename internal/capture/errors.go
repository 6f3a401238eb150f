package capture

import "errors"

var (
	// ErrDeviceUnavailable indicates no usable input device. Wraps the
	// underlying capture error.
	ErrDeviceUnavailable = errors.New("audio input device unavailable")

	// ErrInsecureContext indicates the recognition transport is not
	// encrypted. Dictation refuses to start over plaintext.
	ErrInsecureContext = errors.New("dictation requires an encrypted recognition transport")

	// ErrNoSpeech indicates a session ended without any recognized speech.
	ErrNoSpeech = errors.New("no speech recognized")
)
