package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	testCases := []struct {
		name      string
		prefix    string
		localPath string
		want      string
	}{
		{name: "with prefix", prefix: "audio", localPath: "/tmp/scratch/1724-ab12cd34.mp3", want: "audio/1724-ab12cd34.mp3"},
		{name: "no prefix", prefix: "", localPath: "/tmp/scratch/1724-ab12cd34.mp3", want: "1724-ab12cd34.mp3"},
		{name: "bare filename", prefix: "audio", localPath: "clip.webm", want: "audio/clip.webm"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ObjectKey(tc.prefix, tc.localPath))
		})
	}
}

func TestObjectURL(t *testing.T) {
	plain := &MinioAudioStore{bucket: "recordings", endpoint: "minio.local:9000"}
	assert.Equal(t,
		"http://minio.local:9000/recordings/audio/clip.mp3",
		plain.ObjectURL("audio/clip.mp3"))

	secure := &MinioAudioStore{bucket: "recordings", endpoint: "minio.local:9000", useSSL: true}
	assert.Equal(t,
		"https://minio.local:9000/recordings/audio/clip.mp3",
		secure.ObjectURL("audio/clip.mp3"))
}

func TestContentTypeFor(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{path: "a.mp3", want: "audio/mpeg"},
		{path: "a.wav", want: "audio/wav"},
		{path: "a.webm", want: "audio/webm"},
		{path: "a.ogg", want: "audio/ogg"},
		{path: "a.m4a", want: "audio/mp4"},
		{path: "a.opus", want: "application/octet-stream"},
		{path: "noext", want: "application/octet-stream"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, contentTypeFor(tc.path), tc.path)
	}
}
