package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// SaveModel は gob でエンコードしたモデルをファイルに保存する
//
// 使用例:
//
//	est := mle.NewGaussianMLE()
//	// ... est.Fit(X, y) ...
//	err := est.Save("model.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	if err := SaveModelToWriter(model, file); err != nil {
		_ = file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "failed to close model file")
}

// LoadModel はファイルからモデルを読み込む。model はポインタであること。
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルを io.Writer に保存する
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader は io.Reader からモデルを読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
