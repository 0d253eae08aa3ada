package archivehost

import "bytes"

var (
	pkgMagic           = []byte{0x7F, 'P', 'K', 'G'}
	exfatMagic         = []byte("EXFAT   ")
	installShieldMagic = []byte("InstallShield\x00")
	issetupStreamMagic = []byte("ISSetupStream\x00")
)

// DetectFormat applies the three magic-byte rules a host framework's
// signature-registration table would use to pick a Handler, given a
// sniff buffer read from the start of the candidate file.
func DetectFormat(sniff []byte) Format {
	if len(sniff) >= 4 && bytes.Equal(sniff[0:4], pkgMagic) {
		return FormatPKG
	}
	if len(sniff) >= 11 && bytes.Equal(sniff[3:11], exfatMagic) {
		return FormatExFAT
	}
	if len(sniff) >= 14 && (bytes.Equal(sniff[0:14], installShieldMagic) || bytes.Equal(sniff[0:14], issetupStreamMagic)) {
		return FormatInstallShield
	}
	return FormatUnknown
}
