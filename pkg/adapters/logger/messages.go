package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Capture operation
		"No frame available from source":      "ソースから利用可能なフレームがありません",
		"Failed to acquire frame: %s":         "フレームの取得に失敗しました: %s",
		"Acquired frame seq=%d (%dx%d %s)":    "フレームを取得しました seq=%d (%dx%d %s)",
		"Failed to compress frame: %s":        "フレームの圧縮に失敗しました: %s",
		"Compressor returned an empty buffer": "圧縮結果が空のバッファでした",
		"Captured frame: %d compressed bytes, %d text chars": "フレームをキャプチャしました: 圧縮 %d バイト, テキスト %d 文字",

		// File operation
		"Failed to open %s: %s":               "%s を開けませんでした: %s",
		"Size of %s is unknown":               "%s のサイズが不明です",
		"Failed to read %s: %s":               "%s の読み込みに失敗しました: %s",
		"Encoded %s: %d bytes, %d text chars": "%s をエンコードしました: %d バイト, テキスト %d 文字",

		// Camera pipeline
		"Starting capture pipeline for %s":    "%s のキャプチャパイプラインを開始します",
		"Capture pipeline is playing":         "キャプチャパイプラインが再生状態になりました",
		"Stopping capture pipeline":           "キャプチャパイプラインを停止します",
		"Pipeline error: %s":                  "パイプラインエラー: %s",
		"End of stream":                       "ストリームが終了しました",
		"Pattern source generating %s frames": "パターンソースが %s フレームを生成します",

		// Warnings
		"Empty sample from appsink, skipping": "appsink から空のサンプルを受信したためスキップします",
		"Retrying capture (%d/%d)...":         "キャプチャを再試行します (%d/%d)...",

		// Errors
		"Failed to write output: %s":           "出力の書き込みに失敗しました: %s",
		"No image available after %d attempts": "%d 回の試行でも画像を取得できませんでした",
	})
}
