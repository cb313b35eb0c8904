package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckUpload(t *testing.T) {
	tests := []struct {
		name        string
		mimeType    string
		size        int64
		policy      UploadPolicy
		wantError   bool
		expectedErr string
	}{
		{
			name:     "png within limit",
			mimeType: "image/png",
			size:     1024,
			policy:   DefaultUploadPolicy(),
		},
		{
			name:     "jpeg within limit",
			mimeType: "image/jpeg",
			size:     2 * 1024 * 1024,
			policy:   DefaultUploadPolicy(),
		},
		{
			name:     "gif within limit",
			mimeType: "image/gif",
			size:     1,
			policy:   DefaultUploadPolicy(),
		},
		{
			name:     "exactly at the limit passes",
			mimeType: "image/png",
			size:     MaxUploadSize,
			policy:   DefaultUploadPolicy(),
		},
		{
			name:        "one byte over the limit fails",
			mimeType:    "image/png",
			size:        MaxUploadSize + 1,
			policy:      DefaultUploadPolicy(),
			wantError:   true,
			expectedErr: "file too large",
		},
		{
			name:        "webp rejected by default",
			mimeType:    "image/webp",
			size:        1024,
			policy:      DefaultUploadPolicy(),
			wantError:   true,
			expectedErr: "only PNG, JPEG and GIF",
		},
		{
			name:     "webp accepted when allowed",
			mimeType: "image/webp",
			size:     1024,
			policy:   UploadPolicy{MaxSize: MaxUploadSize, AllowWebP: true},
		},
		{
			name:        "non-image rejected",
			mimeType:    "application/pdf",
			size:        1024,
			policy:      DefaultUploadPolicy(),
			wantError:   true,
			expectedErr: "unsupported file type",
		},
		{
			name:        "empty mime rejected",
			mimeType:    "",
			size:        1024,
			policy:      DefaultUploadPolicy(),
			wantError:   true,
			expectedErr: "unsupported file type",
		},
		{
			name:      "zero max size falls back to the default limit",
			mimeType:  "image/png",
			size:      MaxUploadSize,
			policy:    UploadPolicy{},
			wantError: false,
		},
		{
			name:        "type is checked before size",
			mimeType:    "application/zip",
			size:        MaxUploadSize * 10,
			policy:      DefaultUploadPolicy(),
			wantError:   true,
			expectedErr: "unsupported file type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUpload(tt.mimeType, tt.size, tt.policy)

			if tt.wantError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)

				var verr *Error
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
