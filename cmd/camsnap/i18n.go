// Package main provides localization for the camsnap CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Capture camera frames and encode images as Base64 text": "カメラフレームのキャプチャと画像のBase64テキスト変換",
		"Path to a YAML configuration file":                      "YAML設定ファイルのパス",
		"Log level (debug, info, warn, error, quiet)":            "ログレベル (debug, info, warn, error, quiet)",
		"Log format (console, json)":                             "ログ形式 (console, json)",
		"Suppress all log output":                                "すべてのログ出力を抑制",

		// Capture command
		"Capture one camera frame and print it as Base64 text": "カメラフレームを1枚キャプチャしBase64テキストとして出力",
		"Frame source kind (v4l2, rtsp, pattern)":               "フレームソースの種類 (v4l2, rtsp, pattern)",
		"V4L2 camera device path":                               "V4L2カメラデバイスのパス",
		"RTSP stream URL":                                       "RTSPストリームのURL",
		"Test pattern (colorbars, gradient, grid)":              "テストパターン (colorbars, gradient, grid)",
		"Wrap the output as a data:image/jpeg;base64 URI":       "出力を data:image/jpeg;base64 URI として包む",
		"Retry up to this many times when no frame is available": "フレームが取得できない場合の最大再試行回数",

		// Encode command
		"Encode a file from a mounted filesystem as Base64 text": "マウントされたファイルシステム上のファイルをBase64テキストに変換",
		"Write the text to this path instead of stdout":          "標準出力の代わりにこのパスへテキストを書き込む",
		"MIME type used with --data-uri":                         "--data-uri で使用するMIMEタイプ",
		"Wrap the output as a data URI":                          "出力を data URI として包む",

		// Mounts command
		"List the configured filesystem mounts": "設定済みのファイルシステムマウントを一覧表示",
	})
}
