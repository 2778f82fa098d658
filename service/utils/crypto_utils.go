/*
 * @module service/utils/crypto_utils
 * @description 加密工具：门户App Token等敏感配置的AES加解密与哈希辅助
 * @architecture 工具层 - 无状态加密
 * @documentReference dev_docs/ingestion.md
 * @stateFlow 明文 -> AES-CFB+随机IV -> base64密文，解密反向
 * @rules 密钥经SHA-256归一为32字节；密文随机IV前置；空密钥退回内置默认值
 * @dependencies crypto/aes, crypto/cipher, crypto/rand
 * @refs service/datasource/socrata.go
 */

package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

// CryptoUtils 加密工具
type CryptoUtils struct {
	defaultKey []byte
}

// NewCryptoUtils 创建加密工具实例，key为空时使用内置默认密钥
func NewCryptoUtils(key string) *CryptoUtils {
	if key == "" {
		key = "civicdata-default-key-32-chars!!"
	}
	hasher := sha256.New()
	hasher.Write([]byte(key))
	return &CryptoUtils{defaultKey: hasher.Sum(nil)}
}

// AESEncrypt AES加密，返回base64(IV+密文)
func (cu *CryptoUtils) AESEncrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(cu.defaultKey)
	if err != nil {
		return "", fmt.Errorf("创建AES块失败: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("生成IV失败: %w", err)
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, []byte(plaintext))

	return base64.StdEncoding.EncodeToString(append(iv, ciphertext...)), nil
}

// AESDecrypt AES解密base64(IV+密文)
func (cu *CryptoUtils) AESDecrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("解码base64失败: %w", err)
	}
	if len(data) < aes.BlockSize {
		return "", fmt.Errorf("密文长度不足")
	}

	block, err := aes.NewCipher(cu.defaultKey)
	if err != nil {
		return "", fmt.Errorf("创建AES块失败: %w", err)
	}

	iv := data[:aes.BlockSize]
	body := data[aes.BlockSize:]

	stream := cipher.NewCFBDecrypter(block, iv)
	plaintext := make([]byte, len(body))
	stream.XORKeyStream(plaintext, body)
	return string(plaintext), nil
}

// SHA256Hash SHA256哈希的十六进制表示
func (cu *CryptoUtils) SHA256Hash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
