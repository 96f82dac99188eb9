package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileProgress 文件读取进度
type FileProgress struct {
	// Loaded 已读取字节数
	Loaded int64
	// Total 总字节数，未知时为 0
	Total int64
	// Percentage 进度百分比（0-100），Total 未知时为 0
	Percentage int
}

// ProgressReader 在读取时回调进度的 io.Reader
type ProgressReader struct {
	r          io.Reader
	total      int64
	onProgress func(FileProgress)

	mu     sync.Mutex
	loaded int64
	lastPc int
}

// NewProgressReader 包装 r；total 为已知总长度（未知时传 0）
func NewProgressReader(r io.Reader, total int64, onProgress func(FileProgress)) *ProgressReader {
	return &ProgressReader{r: r, total: total, onProgress: onProgress, lastPc: -1}
}

// Read 实现 io.Reader
func (p *ProgressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.report(int64(n))
	}
	return n, err
}

// Loaded 已读取字节数
func (p *ProgressReader) Loaded() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

func (p *ProgressReader) report(n int64) {
	p.mu.Lock()
	p.loaded += n
	progress := FileProgress{Loaded: p.loaded, Total: p.total}
	if p.total > 0 {
		progress.Percentage = int(p.loaded * 100 / p.total)
		if progress.Percentage > 100 {
			progress.Percentage = 100
		}
	}
	// 百分比未变化时不重复回调
	notify := p.onProgress != nil && (p.total <= 0 || progress.Percentage != p.lastPc)
	p.lastPc = progress.Percentage
	p.mu.Unlock()

	if notify {
		p.onProgress(progress)
	}
}

// OpenedFile 以进度读取方式打开的文件
type OpenedFile struct {
	*ProgressReader
	Name string
	Size int64
	file *os.File
}

// Close 关闭底层文件
func (f *OpenedFile) Close() error {
	return f.file.Close()
}

// OpenFileWithProgress 打开文件并返回带进度回调的读取器
//
// 示例：
//
//	f, err := OpenFileWithProgress("deed.pdf", func(p FileProgress) {
//	    fmt.Printf("Progress: %d%%\n", p.Percentage)
//	})
//	defer f.Close()
func OpenFileWithProgress(path string, onProgress func(FileProgress)) (*OpenedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file failed: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("get file info failed: %w", err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &OpenedFile{
		ProgressReader: NewProgressReader(file, info.Size(), onProgress),
		Name:           filepath.Base(path),
		Size:           info.Size(),
		file:           file,
	}, nil
}
