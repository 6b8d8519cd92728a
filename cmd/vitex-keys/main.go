package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vitexbot/govitex/pkg/secretstore"
)

// 把 .env 里的 ViteX API 凭证导入加密 secretstore，
// 之后 vitex-trader 不再需要明文环境变量。
func main() {
	var (
		inPath    = flag.String("in", ".env", "输入 .env 文件路径")
		dbPath    = flag.String("store", getenv("SECRETSTORE_PATH", "data/secretstore"), "secretstore 数据目录")
		secretKey = flag.String("secret-key", getenv("VITEX_SECRET_KEY", ""), "加密密钥（32 字节 base64/hex）")
		importAll = flag.Bool("all", false, "导入 .env 全部键值（前缀 env/），而不只是 API 凭证")
		show      = flag.Bool("show", false, "只读显示已存的 API Key（不显示 Secret）")
	)
	flag.Parse()

	keyBytes, err := secretstore.ParseKey(*secretKey)
	if err != nil {
		fatal(err)
	}
	if keyBytes == nil {
		fatal(fmt.Errorf("加密密钥必填：设置 VITEX_SECRET_KEY 或传 -secret-key"))
	}

	if *show {
		showStoredKey(*dbPath, keyBytes)
		return
	}

	kv, err := godotenv.Read(*inPath)
	if err != nil {
		fatal(err)
	}

	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          *dbPath,
		EncryptionKey: keyBytes,
		ReadOnly:      false,
	})
	if err != nil {
		fatal(err)
	}
	defer ss.Close()

	if *importAll {
		written := 0
		for k, v := range kv {
			if err := ss.SetString("env/"+k, v); err != nil {
				fatal(err)
			}
			written++
		}
		fmt.Fprintf(os.Stderr, "已导入 %d 项到 %s（前缀 env/）\n", written, *dbPath)
		return
	}

	creds := secretstore.Credentials{
		Key:    kv["VITEX_API_KEY"],
		Secret: kv["VITEX_API_SECRET"],
	}
	if !creds.Complete() {
		fatal(fmt.Errorf("%s 缺少 VITEX_API_KEY 或 VITEX_API_SECRET", *inPath))
	}
	if err := ss.SaveCredentials(creds); err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "API 凭证已写入 %s\n", *dbPath)
}

func showStoredKey(dbPath string, keyBytes []byte) {
	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          dbPath,
		EncryptionKey: keyBytes,
		ReadOnly:      true,
	})
	if err != nil {
		fatal(err)
	}
	defer ss.Close()

	creds, err := ss.LoadCredentials()
	if err != nil {
		fatal(err)
	}
	if creds.Key == "" {
		fmt.Println("未存储 API Key")
		return
	}
	fmt.Printf("API Key: %s\n", creds.Key)
	if creds.Secret != "" {
		fmt.Println("API Secret: 已设置")
	} else {
		fmt.Println("API Secret: 未设置")
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
