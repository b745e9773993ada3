// Package errors は背景点サンプリング全体のエラーハンドリングと警告システムを提供します。
// 致命的なエラー（パラメータ不正・空間的不整合）と、結果と一緒に返される
// 非致命的な警告（要求点数の不足など）を区別します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("sdmgo-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// PartialSampleWarningなどの警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// PartialSampleWarning は地理的制約により要求点数を満たせなかった場合の警告です。
// エラーではなく、短い（ただし有効な）結果と一緒に返されます。
type PartialSampleWarning struct {
	Mode      string
	Requested int
	Returned  int
	Reason    string
}

// Shortfall は不足した点数を返します。
func (w *PartialSampleWarning) Shortfall() int {
	return w.Requested - w.Returned
}

func (w *PartialSampleWarning) Error() string {
	if w.Reason != "" {
		return fmt.Sprintf("%s sampling returned %d of %d requested points (shortfall %d): %s",
			w.Mode, w.Returned, w.Requested, w.Shortfall(), w.Reason)
	}
	return fmt.Sprintf("%s sampling returned %d of %d requested points (shortfall %d)",
		w.Mode, w.Returned, w.Requested, w.Shortfall())
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *PartialSampleWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("mode", w.Mode).
		Int("requested", w.Requested).
		Int("returned", w.Returned).
		Int("shortfall", w.Shortfall()).
		Str("reason", w.Reason).
		Str("type", "PartialSampleWarning")
}

// NewPartialSampleWarning は新しいPartialSampleWarningを作成します。
func NewPartialSampleWarning(mode string, requested, returned int, reason string) *PartialSampleWarning {
	return &PartialSampleWarning{Mode: mode, Requested: requested, Returned: returned, Reason: reason}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、在データのみ（背景点なし）でAUCを計算した場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// InvalidParameterError は呼び出し側が構造的に不正なリクエストを渡した場合のエラーです。
// 致命的であり、リトライしても結果は変わりません。
type InvalidParameterError struct {
	Op        string
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("sdmgo: %s: invalid parameter '%s': %s (got: %v)", e.Op, e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidParameterError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "InvalidParameterError")
}

// NewInvalidParameterError は新しいInvalidParameterErrorを作成し、スタックトレースを付与します。
func NewInvalidParameterError(op, param, reason string, value interface{}) error {
	err := &InvalidParameterError{Op: op, ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// AlignmentError はバイアスラスタ（または共変量グリッド）と調査範囲の空間参照が
// 一致しない場合のエラーです。
type AlignmentError struct {
	Op       string
	Layer    string
	Expected string
	Got      string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("sdmgo: %s: %s is not aligned. Expected %s, got %s", e.Op, e.Layer, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *AlignmentError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("layer", e.Layer).
		Str("expected", e.Expected).
		Str("got", e.Got).
		Str("type", "AlignmentError")
}

// NewAlignmentError は新しいAlignmentErrorを作成し、スタックトレースを付与します。
func NewAlignmentError(op, layer, expected, got string) error {
	err := &AlignmentError{Op: op, Layer: layer, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// FormatError は入力ファイル（ASCIIグリッド、CSVなど）の書式が不正な場合のエラーです。
type FormatError struct {
	Source  string
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("sdmgo: %s: line %d: %s", e.Source, e.Line, e.Message)
	}
	return fmt.Sprintf("sdmgo: %s: %s", e.Source, e.Message)
}

// NewFormatError は新しいFormatErrorを作成し、スタックトレースを付与します。
func NewFormatError(source string, line int, message string) error {
	err := &FormatError{Source: source, Line: line, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrUnknownMode は未知のサンプリングモードが指定された場合のエラーです。
	ErrUnknownMode = New("unknown sampling mode")

	// ErrNotFitted は学習前のスケーラーで変換しようとした場合のエラーです。
	ErrNotFitted = New("not fitted")
)
