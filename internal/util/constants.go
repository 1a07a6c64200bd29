package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimePNG = "image/png"
)

// 证书验证码字符集：大写字母 + 数字
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// 证书二维码载荷路径前缀
const VerifyPathPrefix = "/verify/"

// 成绩等级下限
var GradeThresholds = []struct {
	Min   int
	Grade string
}{
	{90, "A"},
	{80, "B"},
	{70, "C"},
	{60, "D"},
	{0, "E"},
}
